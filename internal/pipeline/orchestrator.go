package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Ingester accepts records one at a time.
type Ingester interface {
	Ingest(ctx context.Context, rec catalog.Record) (catalog.IngestResult, error)
}

// Stats counts what a run fed into the catalog.
type Stats struct {
	Platforms    int
	Sources      int
	Records      int
	Created      int
	Merged       int
	LinksAdded   int
	LinksIgnored int
}

func (s *Stats) add(result catalog.IngestResult) {
	s.Records++
	if result.Created {
		s.Created++
	} else {
		s.Merged++
	}
	s.LinksAdded += result.LinksAdded
	s.LinksIgnored += result.LinksIgnored
}

// Orchestrator runs the sources of a manifest against resolved adapters.
type Orchestrator struct {
	store    Ingester
	adapters *Adapters
	progress io.Writer
	logger   *slog.Logger
}

// NewOrchestrator wires an orchestrator. progress receives the per-source
// progress lines and may be nil.
func NewOrchestrator(store Ingester, adapters *Adapters, progress io.Writer, logger *slog.Logger) *Orchestrator {
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		store:    store,
		adapters: adapters,
		progress: progress,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes platforms and sources in manifest order and stops at the
// first error. Records already ingested stay in the store.
func (o *Orchestrator) Run(ctx context.Context, manifest *config.Manifest, useCache bool) (Stats, error) {
	var stats Stats
	for _, platform := range manifest.Platforms {
		fmt.Fprintf(o.progress, "\n%s:\n", platform.ID)
		stats.Platforms++

		platformCtx := services.WithPlatform(ctx, platform.ID)
		for i, src := range platform.Sources {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			fmt.Fprintf(o.progress, "  %d) %s\n", i+1, src.ProgressLabel())

			sourceCtx := services.WithSource(platformCtx, i+1)
			if err := o.runSource(sourceCtx, src, platform.ID, useCache, &stats); err != nil {
				logging.ErrorWithContext(logging.WithContext(sourceCtx, o.logger), "source failed", "source_failed",
					logging.String("scraper", src.Scraper),
					logging.String(logging.FieldErrorKind, services.Kind(err)),
					logging.Error(err))
				return stats, fmt.Errorf("%s source %d: %w", platform.ID, i+1, err)
			}
			stats.Sources++
		}
	}
	return stats, nil
}

func (o *Orchestrator) runSource(ctx context.Context, src config.Source, platformID string, useCache bool, stats *Stats) error {
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("source started",
		logging.String(logging.FieldEventType, "source_start"),
		logging.String("scraper", src.Scraper),
		logging.String("format", src.Format),
		logging.String("type", src.Type),
		logging.Int("urls", len(src.URLs)))

	scraper, ok := o.adapters.Scraper(src.Scraper)
	if !ok {
		return services.Wrap(services.ErrConfiguration, "pipeline", "run source",
			fmt.Sprintf("scraper %q not resolved", src.Scraper), nil)
	}
	records, err := scraper.Scrape(ctx, src, platformID, useCache)
	if err != nil {
		return err
	}
	scraped := len(records)

	for _, step := range src.Parsers {
		parser, ok := o.adapters.Parser(step.Name)
		if !ok {
			return services.Wrap(services.ErrConfiguration, "pipeline", "run source",
				fmt.Sprintf("parser %q not resolved", step.Name), nil)
		}
		records, err = parser.Parse(ctx, records, step.Flags)
		if err != nil {
			return fmt.Errorf("parser %s: %w", step.Name, err)
		}
	}

	before := *stats
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := o.store.Ingest(ctx, rec)
		if err != nil {
			return fmt.Errorf("ingest %q: %w", rec.Title, err)
		}
		stats.add(result)
	}

	logger.Info("source finished",
		logging.String(logging.FieldEventType, "source_complete"),
		logging.Int("scraped", scraped),
		logging.Int("ingested", stats.Records-before.Records),
		logging.Int("created", stats.Created-before.Created),
		logging.Int("merged", stats.Merged-before.Merged),
		logging.Int("links_added", stats.LinksAdded-before.LinksAdded))
	return nil
}
