package pipeline

import (
	"errors"
	"slices"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

func TestDefaultRegistryNames(t *testing.T) {
	r := DefaultRegistry()
	wantScrapers := []string{"internet_archive", "mariocube", "myrient", "nopaystation"}
	if got := r.Scrapers(); !slices.Equal(got, wantScrapers) {
		t.Fatalf("Scrapers() = %v, want %v", got, wantScrapers)
	}
	wantParsers := []string{"gametdb", "libretro", "mame", "no_intro", "wii_rom_set_by_ghostware"}
	if got := r.Parsers(); !slices.Equal(got, wantParsers) {
		t.Fatalf("Parsers() = %v, want %v", got, wantParsers)
	}
}

func TestResolveBuildsEachAdapterOnce(t *testing.T) {
	builds := 0
	r := NewRegistry()
	r.RegisterScraper("fake", func(Deps) (Scraper, error) {
		builds++
		return &fakeScraper{}, nil
	})
	r.RegisterParser("suffix", func(Deps) (Parser, error) {
		builds++
		return suffixParser{}, nil
	})

	manifest := manifestFor("nes:fake", "snes:fake")
	for i := range manifest.Platforms {
		manifest.Platforms[i].Sources[0].Parsers = []config.ParserStep{{Name: "suffix"}, {Name: "suffix"}}
	}

	adapters, err := r.Resolve(manifest, Deps{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if builds != 2 {
		t.Fatalf("expected one build per adapter name, got %d", builds)
	}
	if _, ok := adapters.Scraper("fake"); !ok {
		t.Fatal("scraper not resolved")
	}
	if _, ok := adapters.Parser("suffix"); !ok {
		t.Fatal("parser not resolved")
	}
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	r := testRegistry(&fakeScraper{})

	tests := []struct {
		name     string
		manifest *config.Manifest
	}{
		{"scraper", manifestFor("nes:missing")},
		{"platform", manifestFor("dreamcast9000:fake")},
		{"parser", func() *config.Manifest {
			m := manifestFor("nes:fake")
			m.Platforms[0].Sources[0].Parsers = []config.ParserStep{{Name: "suffix"}, {Name: "missing"}}
			return m
		}()},
		{"region", func() *config.Manifest {
			m := manifestFor("nes:fake")
			m.Platforms[0].Sources[0].Regions = []string{"mars"}
			return m
		}()},
		{"empty", &config.Manifest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.manifest)
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestDefaultRegistryRequiresFetcher(t *testing.T) {
	_, err := DefaultRegistry().Resolve(manifestFor("nes:myrient"), Deps{Config: &config.Config{}})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
