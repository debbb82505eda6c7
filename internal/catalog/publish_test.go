package catalog_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/testsupport"
)

func buildGeneration(t *testing.T, cfg *config.Config, titles ...string) {
	t.Helper()
	store := testsupport.MustCreateStaging(t, cfg)
	for _, title := range titles {
		testsupport.MustIngest(t, store, catalog.Record{Title: title, PlatformID: "nes", Regions: []string{"us"}})
	}
	if err := store.Publish(); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
}

func entryCount(t *testing.T, path string) int {
	t.Helper()
	store, err := catalog.OpenPublished(context.Background(), path, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenPublished(%s): %v", path, err)
	}
	defer store.Close()
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	return stats.Entries
}

func TestPublishRotatesSingleBackup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	paths := catalog.PathsFor(cfg.DatabasePath())

	buildGeneration(t, cfg, "One")
	if got := entryCount(t, paths.Published); got != 1 {
		t.Fatalf("first generation entries = %d", got)
	}
	if _, err := os.Stat(paths.Backup); !os.IsNotExist(err) {
		t.Fatalf("expected no backup after first publish, stat err=%v", err)
	}
	if _, err := os.Stat(paths.Staging); !os.IsNotExist(err) {
		t.Fatalf("expected staging to be promoted, stat err=%v", err)
	}

	// A second staging build leaves the published catalog readable throughout.
	store := testsupport.MustCreateStaging(t, cfg)
	testsupport.MustIngest(t, store, catalog.Record{Title: "One", PlatformID: "nes", Regions: []string{"us"}})
	testsupport.MustIngest(t, store, catalog.Record{Title: "Two", PlatformID: "nes", Regions: []string{"us"}})
	if got := entryCount(t, paths.Published); got != 1 {
		t.Fatalf("published catalog changed before publish: %d", got)
	}
	if err := store.Publish(); err != nil {
		t.Fatalf("second Publish failed: %v", err)
	}
	if got := entryCount(t, paths.Published); got != 2 {
		t.Fatalf("second generation entries = %d", got)
	}
	if got := entryCount(t, paths.Backup); got != 1 {
		t.Fatalf("backup should hold the previous generation, got %d entries", got)
	}

	buildGeneration(t, cfg, "One", "Two", "Three")
	if got := entryCount(t, paths.Published); got != 3 {
		t.Fatalf("third generation entries = %d", got)
	}
	if got := entryCount(t, paths.Backup); got != 2 {
		t.Fatalf("backup should be one generation old, got %d entries", got)
	}
}

func TestPublishedStoreIsReadOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	buildGeneration(t, cfg, "Game")

	store := testsupport.MustOpenPublished(t, cfg)
	if _, err := store.Ingest(context.Background(), catalog.Record{Title: "x", PlatformID: "nes"}); !errors.Is(err, catalog.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if err := store.Publish(); !errors.Is(err, catalog.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly from Publish, got %v", err)
	}
	entry, err := store.Entry(context.Background(), "game-nes-us")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry.Title != "Game" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}
