package parsers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Libretro fills external ids from the serials in libretro DAT files and
// box art from the libretro thumbnail server. DAT files are read from
// <metadata_dir>/libretro; the Named_Boxarts index of each platform is
// fetched once per run.
type Libretro struct {
	datDir        string
	thumbnailsURL string
	fetcher       Fetcher
	useCache      bool
	logger        *slog.Logger

	serials map[string]map[string]string
	boxarts map[string]map[string]struct{}
}

// NewLibretro returns a libretro parser.
func NewLibretro(datDir, thumbnailsURL string, fetcher Fetcher, useCache bool, logger *slog.Logger) *Libretro {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Libretro{
		datDir:        datDir,
		thumbnailsURL: strings.TrimRight(thumbnailsURL, "/"),
		fetcher:       fetcher,
		useCache:      useCache,
		logger:        logging.NewComponentLogger(logger, "libretro"),
		serials:       make(map[string]map[string]string),
		boxarts:       make(map[string]map[string]struct{}),
	}
}

// Parse implements the pipeline parser contract. Platforms libretro does not
// cover pass through unchanged.
func (p *Libretro) Parse(ctx context.Context, records []catalog.Record, _ config.Flags) ([]catalog.Record, error) {
	out := catalog.CloneRecords(records)
	for i := range out {
		rec := &out[i]
		system, ok := libretroSystems[rec.PlatformID]
		if !ok {
			continue
		}

		serials, err := p.serialsFor(rec.PlatformID, system)
		if err != nil {
			return nil, err
		}
		if serial, ok := serials[rec.Title]; ok {
			rec.ExternalID = serial
		}

		indexURL := p.indexURL(system)
		boxarts, err := p.boxartsFor(ctx, rec.PlatformID, indexURL)
		if err != nil {
			return nil, err
		}
		if _, ok := boxarts[rec.Title]; ok {
			rec.BoxartURL = indexURL + url.PathEscape(rec.Title) + ".png"
		}
	}
	return out, nil
}

func (p *Libretro) indexURL(system libretroSystem) string {
	return p.thumbnailsURL + "/" + url.PathEscape(system.name) + "/Named_Boxarts/"
}

func (p *Libretro) serialsFor(platformID string, system libretroSystem) (map[string]string, error) {
	if serials, ok := p.serials[platformID]; ok {
		return serials, nil
	}
	serials := make(map[string]string)
	for _, dat := range system.dats {
		path := filepath.Join(p.datDir, filepath.FromSlash(dat))
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(p.logger, "libretro dat missing", "libretro_dat_missing",
				logging.String("path", path),
				logging.String(logging.FieldErrorHint, "run crocdb metadata fetch libretro"),
				logging.String(logging.FieldImpact, "serials from this dat are not applied"))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		err = readDATSerials(file, serials)
		_ = file.Close()
		if err != nil {
			return nil, services.Wrap(services.ErrParse, "libretro", "read dat", path, err)
		}
	}
	p.serials[platformID] = serials
	return serials, nil
}

func (p *Libretro) boxartsFor(ctx context.Context, platformID, indexURL string) (map[string]struct{}, error) {
	if boxarts, ok := p.boxarts[platformID]; ok {
		return boxarts, nil
	}
	body, err := p.fetcher.Get(ctx, indexURL, p.useCache)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "libretro", "parse thumbnail index", indexURL, err)
	}

	boxarts := make(map[string]struct{})
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find(`img[alt="[IMG]"]`).Length() == 0 {
			return
		}
		href, ok := tr.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		name, err := url.PathUnescape(href)
		if err != nil {
			name = href
		}
		boxarts[normalize.RemoveExt(name)] = struct{}{}
	})
	p.boxarts[platformID] = boxarts

	p.logger.Debug("loaded libretro thumbnail index",
		logging.String(logging.FieldPlatform, platformID),
		logging.Int("boxarts", len(boxarts)))
	return boxarts, nil
}
