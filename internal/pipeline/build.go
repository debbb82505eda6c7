package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/cavv-dev/crocdb-db/internal/boxartcache"
	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/fetch"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// ErrBuildLocked is returned when another build holds the data directory.
var ErrBuildLocked = errors.New("another build is running")

// BuildOptions configures a catalog build. Only Config is required.
type BuildOptions struct {
	Config *config.Config
	// Manifest defaults to the file at Config.Paths.SourcesFile.
	Manifest *config.Manifest
	// Registry defaults to DefaultRegistry.
	Registry *Registry
	// Fetcher defaults to a client built from Config.
	Fetcher  *fetch.Client
	UseCache bool
	Progress io.Writer
	Logger   *slog.Logger
}

// Summary describes a finished build.
type Summary struct {
	Stats
	RunID       string
	Published   string
	StaticFiles string
	Duration    time.Duration
}

// Build runs every source of the manifest into a fresh staging catalog and
// publishes it. The staging catalog is always closed; it is published only
// when every source succeeded.
func Build(ctx context.Context, opts BuildOptions) (Summary, error) {
	start := time.Now()
	cfg := opts.Config
	if cfg == nil {
		return Summary{}, errors.New("build: configuration is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return Summary{}, err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire build lock: %w", err)
	}
	if !locked {
		return Summary{}, fmt.Errorf("%w: lock held at %s", ErrBuildLocked, cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(logger, "failed to release build lock", "build_lock_release_failed",
				logging.String("path", cfg.LockPath()),
				logging.Error(err))
		}
	}()

	summary := Summary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger = logging.WithContext(ctx, logger)

	manifest := opts.Manifest
	if manifest == nil {
		manifest, err = config.LoadManifest(cfg.Paths.SourcesFile)
		if err != nil {
			return summary, services.Wrap(services.ErrConfiguration, "pipeline", "load sources", cfg.Paths.SourcesFile, err)
		}
	}
	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewFromConfig(cfg, logger)
	}

	boxart := boxartcache.NewCache(cfg.Metadata.BoxartCacheFile, logger)
	defer func() {
		if err := boxart.Flush(); err != nil {
			logging.WarnWithContext(logger, "failed to persist box art cache", "boxartcache_flush_failed",
				logging.String("path", boxart.Path()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check boxart_cache_file permissions"),
				logging.String(logging.FieldImpact, "the next build probes box art again"))
		}
	}()

	adapters, err := registry.Resolve(manifest, Deps{
		Config:      cfg,
		Fetcher:     fetcher,
		BoxartCache: boxart,
		Logger:      logger,
		UseCache:    opts.UseCache,
	})
	if err != nil {
		return summary, err
	}

	logger.Info("build started",
		logging.String(logging.FieldEventType, "build_start"),
		logging.Int("platforms", len(manifest.Platforms)),
		logging.Bool("use_cache", opts.UseCache))

	paths := catalog.PathsFor(cfg.DatabasePath())
	store, err := catalog.CreateStaging(ctx, paths, logger)
	if err != nil {
		return summary, err
	}

	stats, runErr := NewOrchestrator(store, adapters, progress, logger).Run(ctx, manifest, opts.UseCache)
	summary.Stats = stats
	if runErr != nil {
		if closeErr := store.Close(); closeErr != nil {
			runErr = errors.Join(runErr, fmt.Errorf("flush staging catalog: %w", closeErr))
		}
		summary.Duration = time.Since(start)
		logging.WarnWithContext(logger, "build aborted; published catalog left untouched", "build_aborted",
			logging.String(logging.FieldErrorKind, services.Kind(runErr)),
			logging.String(logging.FieldImpact, "the previous catalog stays published"),
			logging.Error(runErr))
		return summary, runErr
	}

	if err := store.Publish(); err != nil {
		return summary, err
	}
	summary.Published = paths.Published
	fmt.Fprintln(progress, "\nCatalog published.")

	if dst := cfg.Paths.StaticFilesDir; dst != "" {
		if err := MoveStaticFiles(cfg.Paths.StaticDir, dst); err != nil {
			return summary, fmt.Errorf("move static files: %w", err)
		}
		summary.StaticFiles = dst
		fmt.Fprintf(progress, "Static files moved to '%s'.\n", dst)
	}

	summary.Duration = time.Since(start)
	logger.Info("build finished",
		logging.String(logging.FieldEventType, "build_complete"),
		logging.Int("sources", stats.Sources),
		logging.Int("records", stats.Records),
		logging.Int("created", stats.Created),
		logging.Int("merged", stats.Merged),
		logging.Int("links_added", stats.LinksAdded),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}
