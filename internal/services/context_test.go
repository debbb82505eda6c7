package services_test

import (
	"context"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithPlatform(ctx, "snes")
	ctx = services.WithSource(ctx, 2)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id %q (ok=%v)", id, ok)
	}
	if p, ok := services.PlatformFromContext(ctx); !ok || p != "snes" {
		t.Fatalf("unexpected platform %q (ok=%v)", p, ok)
	}
	if s, ok := services.SourceFromContext(ctx); !ok || s != 2 {
		t.Fatalf("unexpected source %d (ok=%v)", s, ok)
	}
}

func TestContextIgnoresEmptyValues(t *testing.T) {
	ctx := context.Background()
	if services.WithRunID(ctx, "") != ctx {
		t.Fatal("expected empty run id to leave context untouched")
	}
	if services.WithPlatform(ctx, "") != ctx {
		t.Fatal("expected empty platform to leave context untouched")
	}
	if services.WithSource(ctx, 0) != ctx {
		t.Fatal("expected zero source to leave context untouched")
	}
	if _, ok := services.SourceFromContext(ctx); ok {
		t.Fatal("expected no source in bare context")
	}
}
