package testsupport

import (
	"context"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
)

// MustCreateStaging creates a staging catalog for the config's database path
// and registers cleanup.
func MustCreateStaging(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.CreateStaging(context.Background(), catalog.PathsFor(cfg.DatabasePath()), logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.CreateStaging: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustOpenPublished opens the published catalog for the config and registers cleanup.
func MustOpenPublished(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.OpenPublished(context.Background(), cfg.DatabasePath(), logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.OpenPublished: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustIngest ingests rec and fails the test on error.
func MustIngest(t testing.TB, store *catalog.Store, rec catalog.Record) catalog.IngestResult {
	t.Helper()

	result, err := store.Ingest(context.Background(), rec)
	if err != nil {
		t.Fatalf("store.Ingest(%q): %v", rec.Title, err)
	}
	return result
}
