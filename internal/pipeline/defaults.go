package pipeline

import (
	"path/filepath"

	"github.com/cavv-dev/crocdb-db/internal/fetch"
	"github.com/cavv-dev/crocdb-db/internal/parsers"
	"github.com/cavv-dev/crocdb-db/internal/scrapers"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Adapter names accepted in the source manifest.
const (
	ScraperMyrient         = "myrient"
	ScraperMarioCube       = "mariocube"
	ScraperInternetArchive = "internet_archive"
	ScraperNoPayStation    = "nopaystation"

	ParserNoIntro   = "no_intro"
	ParserGhostware = "wii_rom_set_by_ghostware"
	ParserMAME      = "mame"
	ParserLibretro  = "libretro"
	ParserGameTDB   = "gametdb"
)

// DefaultRegistry returns a registry holding every built-in adapter.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterScraper(ScraperMyrient, func(d Deps) (Scraper, error) {
		if err := requireFetcher(d, ScraperMyrient); err != nil {
			return nil, err
		}
		return scrapers.NewMyrient(d.Fetcher), nil
	})
	r.RegisterScraper(ScraperMarioCube, func(d Deps) (Scraper, error) {
		if err := requireFetcher(d, ScraperMarioCube); err != nil {
			return nil, err
		}
		return scrapers.NewMarioCube(d.Fetcher), nil
	})
	r.RegisterScraper(ScraperInternetArchive, func(d Deps) (Scraper, error) {
		if err := requireFetcher(d, ScraperInternetArchive); err != nil {
			return nil, err
		}
		creds := fetch.Credentials{
			Username: d.Config.InternetArchive.Username,
			Password: d.Config.InternetArchive.Password,
		}
		return scrapers.NewInternetArchive(d.Fetcher, d.Config.Fetch.LoginURL, creds, d.Logger), nil
	})
	r.RegisterScraper(ScraperNoPayStation, func(d Deps) (Scraper, error) {
		if err := requireFetcher(d, ScraperNoPayStation); err != nil {
			return nil, err
		}
		return scrapers.NewNoPayStation(d.Fetcher, d.Config.Paths.StaticDir, d.Config.Site.BaseURL, d.Logger), nil
	})

	r.RegisterParser(ParserNoIntro, func(Deps) (Parser, error) {
		return parsers.NewNoIntro(), nil
	})
	r.RegisterParser(ParserGhostware, func(Deps) (Parser, error) {
		return parsers.NewGhostware(), nil
	})
	r.RegisterParser(ParserMAME, func(d Deps) (Parser, error) {
		if err := requireConfig(d, ParserMAME); err != nil {
			return nil, err
		}
		return parsers.NewMAME(filepath.Join(d.Config.Paths.MetadataDir, "mame", "hash"), d.Logger), nil
	})
	r.RegisterParser(ParserLibretro, func(d Deps) (Parser, error) {
		if err := requireFetcher(d, ParserLibretro); err != nil {
			return nil, err
		}
		return parsers.NewLibretro(
			filepath.Join(d.Config.Paths.MetadataDir, "libretro"),
			d.Config.Metadata.LibretroThumbnailsURL,
			d.Fetcher,
			d.UseCache,
			d.Logger,
		), nil
	})
	r.RegisterParser(ParserGameTDB, func(d Deps) (Parser, error) {
		if err := requireFetcher(d, ParserGameTDB); err != nil {
			return nil, err
		}
		return parsers.NewGameTDB(
			filepath.Join(d.Config.Paths.MetadataDir, "gametdb"),
			d.Config.Metadata.GameTDBArtURL,
			d.Fetcher,
			d.BoxartCache,
			d.Logger,
		), nil
	})

	return r
}

func requireConfig(d Deps, name string) error {
	if d.Config == nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "build "+name, "configuration unavailable", nil)
	}
	return nil
}

func requireFetcher(d Deps, name string) error {
	if err := requireConfig(d, name); err != nil {
		return err
	}
	if d.Fetcher == nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "build "+name, "fetch client unavailable", nil)
	}
	return nil
}
