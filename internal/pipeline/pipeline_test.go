package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
)

// fakeScraper returns fixed records per platform and counts calls.
type fakeScraper struct {
	records map[string][]catalog.Record
	err     error
	calls   int
	hook    func()
}

func (s *fakeScraper) Scrape(_ context.Context, src config.Source, platformID string, _ bool) ([]catalog.Record, error) {
	s.calls++
	if s.hook != nil {
		s.hook()
	}
	if s.err != nil {
		return nil, s.err
	}
	out := catalog.CloneRecords(s.records[platformID])
	for i := range out {
		if len(out[i].Regions) == 0 {
			out[i].Regions = append([]string(nil), src.Regions...)
		}
	}
	return out, nil
}

// suffixParser appends its flag "suffix" to every title.
type suffixParser struct{}

func (suffixParser) Parse(_ context.Context, records []catalog.Record, flags config.Flags) ([]catalog.Record, error) {
	suffix, _ := flags["suffix"].(string)
	out := catalog.CloneRecords(records)
	for i := range out {
		out[i].Title += suffix
	}
	return out, nil
}

type failingParser struct{}

func (failingParser) Parse(context.Context, []catalog.Record, config.Flags) ([]catalog.Record, error) {
	return nil, errors.New("parser exploded")
}

func testRegistry(scraper *fakeScraper) *Registry {
	r := NewRegistry()
	r.RegisterScraper("fake", func(Deps) (Scraper, error) { return scraper, nil })
	r.RegisterParser("suffix", func(Deps) (Parser, error) { return suffixParser{}, nil })
	r.RegisterParser("fail", func(Deps) (Parser, error) { return failingParser{}, nil })
	return r
}

func gameLink(name string) catalog.Link {
	return catalog.Link{
		Name:       name,
		Type:       "Game",
		Format:     "nes",
		URL:        "https://files.example/" + name + ".zip",
		Filename:   name + ".zip",
		Host:       "Example",
		SizeBytes:  1024,
		SizeString: "1K",
		SourceURL:  "https://files.example/",
	}
}

func manifestFor(sources ...string) *config.Manifest {
	manifest := &config.Manifest{}
	for _, platform := range sources {
		id, scraper, _ := strings.Cut(platform, ":")
		manifest.Platforms = append(manifest.Platforms, config.PlatformSources{
			ID: id,
			Sources: []config.Source{{
				Format:  id,
				Regions: []string{"us"},
				Scraper: scraper,
				Type:    "Game",
				URLs:    []string{fmt.Sprintf("https://files.example/%s/", id)},
			}},
		})
	}
	return manifest
}
