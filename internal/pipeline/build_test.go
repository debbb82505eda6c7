package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"github.com/cavv-dev/crocdb-db/internal/boxartcache"
	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/services"
	"github.com/cavv-dev/crocdb-db/internal/testsupport"
)

const fakeSources = `
[[platforms]]
id = "nes"

[[platforms.sources]]
format = "nes"
regions = ["us"]
scraper = "fake"
type = "Game"
urls = ["https://files.example/nes/"]

[[platforms.sources.parsers]]
name = "suffix"
flags = { suffix = "!" }

[[platforms.sources]]
format = "nes"
regions = []
scraper = "fake"
type = "Demo"
urls = ["https://files.example/nes-demos/"]
`

func TestBuildPublishesCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSources(fakeSources))
	scraper := &fakeScraper{records: map[string][]catalog.Record{
		"nes": {{Title: "Super Game", PlatformID: "nes", Links: []catalog.Link{gameLink("Super Game")}}},
	}}

	var progress bytes.Buffer
	summary, err := Build(context.Background(), BuildOptions{
		Config:   cfg,
		Registry: testRegistry(scraper),
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "\nnes:\n  1) [nes] [us] [fake] [Game]\n  2) [nes] [fake] [Demo]\n"
	if !strings.HasPrefix(progress.String(), want) {
		t.Fatalf("unexpected progress output:\n%s", progress.String())
	}
	if summary.RunID == "" || summary.Published != cfg.DatabasePath() {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Sources != 2 || summary.Records != 2 || summary.Created != 2 {
		t.Fatalf("unexpected stats %+v", summary.Stats)
	}
	if scraper.calls != 2 {
		t.Fatalf("expected two scrapes, got %d", scraper.calls)
	}

	store := testsupport.MustOpenPublished(t, cfg)
	entry, err := store.Entry(context.Background(), "super-game-nes-us")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry.Title != "Super Game!" {
		t.Fatalf("parser output not ingested, title %q", entry.Title)
	}
	if _, err := store.Entry(context.Background(), "super-game-nes"); err != nil {
		t.Fatalf("region-less entry missing: %v", err)
	}
	if _, err := os.Stat(catalog.PathsFor(cfg.DatabasePath()).Staging); !os.IsNotExist(err) {
		t.Fatalf("staging file should be promoted, stat err %v", err)
	}
}

func TestBuildMergesAcrossSources(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scraper := &fakeScraper{records: map[string][]catalog.Record{
		"nes": {
			{Title: "Super Game", PlatformID: "nes", Links: []catalog.Link{gameLink("a")}},
			{Title: "Super Game", PlatformID: "nes", BoxartURL: "https://art.example/sg.png", Links: []catalog.Link{gameLink("a"), gameLink("b")}},
		},
	}}

	summary, err := Build(context.Background(), BuildOptions{
		Config:   cfg,
		Manifest: manifestFor("nes:fake"),
		Registry: testRegistry(scraper),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if summary.Created != 1 || summary.Merged != 1 || summary.LinksAdded != 2 || summary.LinksIgnored != 1 {
		t.Fatalf("unexpected stats %+v", summary.Stats)
	}

	entry, err := testsupport.MustOpenPublished(t, cfg).Entry(context.Background(), "super-game-nes-us")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry.BoxartURL != "https://art.example/sg.png" || len(entry.Links) != 2 {
		t.Fatalf("unexpected merged entry %+v", entry)
	}
}

func TestBuildUnknownAdapterFailsBeforeStaging(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scraper := &fakeScraper{}
	manifest := manifestFor("nes:fake", "snes:typo")

	_, err := Build(context.Background(), BuildOptions{Config: cfg, Manifest: manifest, Registry: testRegistry(scraper)})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if scraper.calls != 0 {
		t.Fatal("no source may run when validation fails")
	}
	if _, err := os.Stat(catalog.PathsFor(cfg.DatabasePath()).Staging); !os.IsNotExist(err) {
		t.Fatalf("staging catalog must not be created, stat err %v", err)
	}
}

func TestBuildFailureKeepsPublishedCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	good := &fakeScraper{records: map[string][]catalog.Record{
		"nes": {{Title: "Kept Game", PlatformID: "nes"}},
	}}
	if _, err := Build(context.Background(), BuildOptions{Config: cfg, Manifest: manifestFor("nes:fake"), Registry: testRegistry(good)}); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}

	bad := &fakeScraper{records: map[string][]catalog.Record{
		"nes": {{Title: "New Game", PlatformID: "nes"}},
	}}
	manifest := manifestFor("nes:fake")
	manifest.Platforms[0].Sources[0].Parsers = []config.ParserStep{{Name: "fail"}}

	_, err := Build(context.Background(), BuildOptions{Config: cfg, Manifest: manifest, Registry: testRegistry(bad)})
	if err == nil || !strings.Contains(err.Error(), "parser exploded") {
		t.Fatalf("expected parser failure, got %v", err)
	}

	store := testsupport.MustOpenPublished(t, cfg)
	if _, err := store.Entry(context.Background(), "kept-game-nes-us"); err != nil {
		t.Fatalf("previous catalog must stay published: %v", err)
	}
	if _, err := os.Stat(catalog.PathsFor(cfg.DatabasePath()).Backup); !os.IsNotExist(err) {
		t.Fatalf("failed build must not rotate the backup, stat err %v", err)
	}
}

func TestBuildStopsAtFirstFailingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scraper := &fakeScraper{err: services.Wrap(services.ErrFetch, "fake", "scrape", "no entries parsed from URL", nil)}

	var progress bytes.Buffer
	_, err := Build(context.Background(), BuildOptions{
		Config:   cfg,
		Manifest: manifestFor("nes:fake", "snes:fake"),
		Registry: testRegistry(scraper),
		Progress: &progress,
	})
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if scraper.calls != 1 {
		t.Fatalf("expected fail fast after one scrape, got %d", scraper.calls)
	}
	if strings.Contains(progress.String(), "snes") {
		t.Fatalf("later platforms must not start:\n%s", progress.String())
	}
	if _, err := os.Stat(cfg.DatabasePath()); !os.IsNotExist(err) {
		t.Fatalf("nothing may be published, stat err %v", err)
	}
}

func TestBuildHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	scraper := &fakeScraper{
		records: map[string][]catalog.Record{"nes": {{Title: "Game", PlatformID: "nes"}}},
		hook:    cancel,
	}

	_, err := Build(ctx, BuildOptions{Config: cfg, Manifest: manifestFor("nes:fake"), Registry: testRegistry(scraper)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(cfg.DatabasePath()); !os.IsNotExist(err) {
		t.Fatalf("cancelled build must not publish, stat err %v", err)
	}
}

func TestBuildRejectsConcurrentBuild(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	held := flock.New(cfg.LockPath())
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	defer held.Unlock()

	_, err := Build(context.Background(), BuildOptions{Config: cfg, Manifest: manifestFor("nes:fake"), Registry: testRegistry(&fakeScraper{})})
	if !errors.Is(err, ErrBuildLocked) {
		t.Fatalf("expected ErrBuildLocked, got %v", err)
	}
}

func TestBuildMovesStaticFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStaticFilesDir())
	scraper := &fakeScraper{
		records: map[string][]catalog.Record{"ps3": {{Title: "Game", PlatformID: "ps3"}}},
		hook: func() {
			testsupport.WriteFile(t, filepath.Join(cfg.Paths.StaticDir, "content", "ps3", "raps", "X.rap"), "rap")
		},
	}
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.StaticFilesDir, "content", "stale.txt"), "old")

	summary, err := Build(context.Background(), BuildOptions{Config: cfg, Manifest: manifestFor("ps3:fake"), Registry: testRegistry(scraper)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if summary.StaticFiles != cfg.Paths.StaticFilesDir {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := testsupport.ReadFile(t, filepath.Join(cfg.Paths.StaticFilesDir, "content", "ps3", "raps", "X.rap")); got != "rap" {
		t.Fatalf("unexpected moved file %q", got)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.StaticFilesDir, "content", "stale.txt")); !os.IsNotExist(err) {
		t.Fatalf("existing item must be replaced, stat err %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.StaticDir, "content")); !os.IsNotExist(err) {
		t.Fatalf("source item must be moved, stat err %v", err)
	}
}

func TestMoveStaticFilesMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := MoveStaticFiles(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err != nil {
		t.Fatalf("MoveStaticFiles: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(err) {
		t.Fatalf("destination must not be created for a missing source, stat err %v", err)
	}
}

func TestBuildRequiresConfig(t *testing.T) {
	if _, err := Build(context.Background(), BuildOptions{Manifest: &config.Manifest{}}); err == nil {
		t.Fatal("expected error without config")
	}
}

// boxartParser records one box-art outcome per record it sees, then calls
// after.
type boxartParser struct {
	cache *boxartcache.Cache
	after func()
}

func (p boxartParser) Parse(_ context.Context, records []catalog.Record, _ config.Flags) ([]catalog.Record, error) {
	for _, rec := range records {
		if err := p.cache.Store(boxartcache.Entry{Platform: rec.PlatformID, ID: rec.Title}); err != nil {
			return nil, err
		}
	}
	if p.after != nil {
		p.after()
	}
	return records, nil
}

func TestBuildFlushesBoxartCacheOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scraper := &fakeScraper{records: map[string][]catalog.Record{
		"wii": {
			{Title: "RMCE01", PlatformID: "wii", Links: []catalog.Link{gameLink("RMCE01")}},
			{Title: "RSPE01", PlatformID: "wii", Links: []catalog.Link{gameLink("RSPE01")}},
		},
	}}
	// Outcomes stay in memory while sources run.
	notWritten := func() {
		if _, err := os.Stat(cfg.Metadata.BoxartCacheFile); !os.IsNotExist(err) {
			t.Errorf("box art cache written before the build finished, stat err %v", err)
		}
	}
	registry := testRegistry(scraper)
	registry.RegisterParser("boxart", func(d Deps) (Parser, error) {
		return boxartParser{cache: d.BoxartCache, after: notWritten}, nil
	})
	manifest := manifestFor("wii:fake")
	manifest.Platforms[0].Sources[0].Parsers = []config.ParserStep{{Name: "boxart"}}

	if _, err := Build(context.Background(), BuildOptions{Config: cfg, Manifest: manifest, Registry: registry}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	reloaded := boxartcache.NewCache(cfg.Metadata.BoxartCacheFile, nil)
	if reloaded.Count() != 2 {
		t.Fatalf("expected 2 flushed outcomes, got %d", reloaded.Count())
	}
	if _, ok := reloaded.Lookup("wii", "RSPE01"); !ok {
		t.Fatal("outcome RSPE01 not flushed")
	}
}
