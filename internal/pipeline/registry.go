package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/boxartcache"
	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/fetch"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Scraper turns the URLs of one source into raw records.
type Scraper interface {
	Scrape(ctx context.Context, src config.Source, platformID string, useCache bool) ([]catalog.Record, error)
}

// Parser transforms records. Implementations must not mutate the elements
// of the slice they receive.
type Parser interface {
	Parse(ctx context.Context, records []catalog.Record, flags config.Flags) ([]catalog.Record, error)
}

// Deps carries the shared collaborators adapter factories may need.
type Deps struct {
	Config      *config.Config
	Fetcher     *fetch.Client
	BoxartCache *boxartcache.Cache
	Logger      *slog.Logger
	UseCache    bool
}

// ScraperFactory builds a scraper for one run.
type ScraperFactory func(Deps) (Scraper, error)

// ParserFactory builds a parser for one run.
type ParserFactory func(Deps) (Parser, error)

// Registry maps adapter names to factories.
type Registry struct {
	scrapers map[string]ScraperFactory
	parsers  map[string]ParserFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		scrapers: make(map[string]ScraperFactory),
		parsers:  make(map[string]ParserFactory),
	}
}

// RegisterScraper adds or replaces the scraper factory for name.
func (r *Registry) RegisterScraper(name string, factory ScraperFactory) {
	r.scrapers[name] = factory
}

// RegisterParser adds or replaces the parser factory for name.
func (r *Registry) RegisterParser(name string, factory ParserFactory) {
	r.parsers[name] = factory
}

// Scrapers lists registered scraper names in sorted order.
func (r *Registry) Scrapers() []string {
	return sortedKeys(r.scrapers)
}

// Parsers lists registered parser names in sorted order.
func (r *Registry) Parsers() []string {
	return sortedKeys(r.parsers)
}

// Adapters holds the adapter instances of one run. Each name is built once
// and shared by every source that uses it.
type Adapters struct {
	scrapers map[string]Scraper
	parsers  map[string]Parser
}

// Scraper returns the instance resolved for name.
func (a *Adapters) Scraper(name string) (Scraper, bool) {
	s, ok := a.scrapers[name]
	return s, ok
}

// Parser returns the instance resolved for name.
func (a *Adapters) Parser(name string) (Parser, bool) {
	p, ok := a.parsers[name]
	return p, ok
}

// Validate checks that every platform, region and adapter named by manifest
// is known without building anything.
func (r *Registry) Validate(manifest *config.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "validate sources", "", err)
	}
	for _, platform := range manifest.Platforms {
		if !catalog.KnownPlatform(platform.ID) {
			return services.Wrap(services.ErrConfiguration, "pipeline", "validate sources",
				fmt.Sprintf("unknown platform %q", platform.ID), nil)
		}
		for i, src := range platform.Sources {
			where := fmt.Sprintf("%s source %d", platform.ID, i+1)
			for _, region := range src.Regions {
				if !catalog.KnownRegion(region) {
					return services.Wrap(services.ErrConfiguration, "pipeline", "validate sources",
						fmt.Sprintf("%s: unknown region %q", where, region), nil)
				}
			}
			if _, ok := r.scrapers[src.Scraper]; !ok {
				return services.Wrap(services.ErrConfiguration, "pipeline", "validate sources",
					fmt.Sprintf("%s: scraper %q not found (known: %s)", where, src.Scraper, strings.Join(r.Scrapers(), ", ")), nil)
			}
			for _, step := range src.Parsers {
				if _, ok := r.parsers[step.Name]; !ok {
					return services.Wrap(services.ErrConfiguration, "pipeline", "validate sources",
						fmt.Sprintf("%s: parser %q not found (known: %s)", where, step.Name, strings.Join(r.Parsers(), ", ")), nil)
				}
			}
		}
	}
	return nil
}

// Resolve validates manifest and builds one instance of every adapter it
// names, in order of first use.
func (r *Registry) Resolve(manifest *config.Manifest, deps Deps) (*Adapters, error) {
	if err := r.Validate(manifest); err != nil {
		return nil, err
	}
	adapters := &Adapters{
		scrapers: make(map[string]Scraper),
		parsers:  make(map[string]Parser),
	}
	for _, platform := range manifest.Platforms {
		for _, src := range platform.Sources {
			if _, done := adapters.scrapers[src.Scraper]; !done {
				scraper, err := r.scrapers[src.Scraper](deps)
				if err != nil {
					return nil, fmt.Errorf("build scraper %s: %w", src.Scraper, err)
				}
				adapters.scrapers[src.Scraper] = scraper
			}
			for _, step := range src.Parsers {
				if _, done := adapters.parsers[step.Name]; done {
					continue
				}
				parser, err := r.parsers[step.Name](deps)
				if err != nil {
					return nil, fmt.Errorf("build parser %s: %w", step.Name, err)
				}
				adapters.parsers[step.Name] = parser
			}
		}
	}
	return adapters, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
