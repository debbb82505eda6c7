package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	platformKey contextKey = "platform"
	sourceKey   contextKey = "source"
)

// WithRunID annotates context with the build run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the build run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPlatform annotates context with the platform currently being built.
func WithPlatform(ctx context.Context, platform string) context.Context {
	if platform == "" {
		return ctx
	}
	return context.WithValue(ctx, platformKey, platform)
}

// PlatformFromContext returns the platform id if present.
func PlatformFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(platformKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSource annotates context with the 1-based position of the source within
// its platform.
func WithSource(ctx context.Context, index int) context.Context {
	if index <= 0 {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, index)
}

// SourceFromContext returns the source position if present.
func SourceFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(sourceKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
