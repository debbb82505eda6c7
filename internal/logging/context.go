package logging

import (
	"context"
	"log/slog"

	"github.com/cavv-dev/crocdb-db/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for build run identifiers.
	FieldRunID = "run_id"
	// FieldPlatform is the standardized structured logging key for platform ids.
	FieldPlatform = "platform"
	// FieldSource is the standardized structured logging key for the 1-based source position.
	FieldSource = "source"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldErrorKind carries services.Kind for failed operations.
	FieldErrorKind = "error_kind"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if platform, ok := services.PlatformFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPlatform, platform))
	}
	if source, ok := services.SourceFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldSource, source))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
