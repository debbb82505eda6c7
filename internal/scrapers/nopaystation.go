package scrapers

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
	"github.com/cavv-dev/crocdb-db/internal/services"
	"github.com/cavv-dev/crocdb-db/internal/textutil"
)

// NoPayStationHost is the host label on NoPayStation links.
const NoPayStationHost = "NoPayStation"

const (
	ps3RapsPath   = "content/ps3/raps"
	psvZRIFsPath  = "content/psv/zrifs"
	rapHexLength  = 32
	rapFileLength = 16
)

var noPayStationRegions = map[string]string{
	"US": "us",
	"EU": "eu",
	"JP": "jp",
}

// NoPayStation scrapes the NoPayStation TSV databases. Besides the package
// links it writes PS3 RAP files and PS Vita zRIF strings into the static
// directory and links them under the public site.
type NoPayStation struct {
	fetcher   Fetcher
	staticDir string
	siteURL   string
	logger    *slog.Logger
}

// NewNoPayStation returns a NoPayStation scraper. staticDir receives the
// generated license files; siteURL is the public base they are served from.
func NewNoPayStation(fetcher Fetcher, staticDir, siteURL string, logger *slog.Logger) *NoPayStation {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NoPayStation{
		fetcher:   fetcher,
		staticDir: staticDir,
		siteURL:   strings.TrimRight(siteURL, "/"),
		logger:    logging.NewComponentLogger(logger, "nopaystation"),
	}
}

// nopsRow is one TSV row addressed by column name.
type nopsRow map[string]string

func (r nopsRow) get(column string) string {
	return strings.TrimSpace(r[column])
}

// Scrape implements the pipeline scraper contract.
func (n *NoPayStation) Scrape(ctx context.Context, src config.Source, platformID string, useCache bool) ([]catalog.Record, error) {
	for _, dir := range []string{ps3RapsPath, psvZRIFsPath} {
		if err := os.MkdirAll(filepath.Join(n.staticDir, filepath.FromSlash(dir)), 0o755); err != nil {
			return nil, fmt.Errorf("create static content directory: %w", err)
		}
	}

	var records []catalog.Record
	for _, pageURL := range src.URLs {
		body, err := n.fetcher.Get(ctx, pageURL, useCache)
		if err != nil {
			return nil, err
		}
		rows, err := readTSV(body)
		if err != nil {
			return nil, services.Wrap(services.ErrParse, NoPayStationHost, "read tsv", pageURL, err)
		}
		var page []catalog.Record
		for _, row := range rows {
			rec, err := n.record(ctx, row, src, platformID, pageURL, useCache)
			if err != nil {
				return nil, err
			}
			if len(rec.Links) > 0 {
				page = append(page, rec)
			}
		}
		if len(page) == 0 {
			return nil, services.Wrap(services.ErrFetch, NoPayStationHost, "scrape", "no entries parsed from "+pageURL, nil)
		}
		records = append(records, page...)
	}
	return records, nil
}

func readTSV(body string) ([]nopsRow, error) {
	reader := csv.NewReader(strings.NewReader(body))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []nopsRow
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(nopsRow, len(header))
		for i, column := range header {
			if i < len(fields) {
				row[column] = fields[i]
			}
		}
		rows = append(rows, row)
	}
}

func (n *NoPayStation) record(ctx context.Context, row nopsRow, src config.Source, platformID, pageURL string, useCache bool) (catalog.Record, error) {
	region, ok := noPayStationRegions[row.get("Region")]
	if !ok {
		region = "other"
	}
	rec := catalog.Record{
		Title:      row.get("Name"),
		PlatformID: platformID,
		Regions:    []string{region},
		ExternalID: row.get("Title ID"),
	}
	links, err := n.links(ctx, row, src, platformID, pageURL, useCache)
	if err != nil {
		return catalog.Record{}, err
	}
	rec.Links = links
	return rec, nil
}

func (n *NoPayStation) links(ctx context.Context, row nopsRow, src config.Source, platformID, pageURL string, useCache bool) ([]catalog.Link, error) {
	pkgURL := row.get("PKG direct link")
	if !strings.HasPrefix(pkgURL, "http") {
		return nil, nil
	}
	name := row.get("Name")
	sizeValue, err := strconv.ParseFloat(row.get("File Size"), 64)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, NoPayStationHost, "file size", fmt.Sprintf("%s (%s)", name, row.get("Title ID")), err)
	}
	size := int64(math.Round(sizeValue))
	sizeString := normalize.FormatSize(size)

	var links []catalog.Link
	if strings.HasSuffix(pkgURL, ".xml") {
		pieces, err := n.pieces(ctx, pkgURL, useCache)
		if err != nil {
			return nil, err
		}
		for i, pieceURL := range pieces {
			links = append(links, catalog.Link{
				Name:       name,
				Type:       fmt.Sprintf("%s #%d", src.Type, i),
				Format:     src.Format,
				URL:        pieceURL,
				Filename:   lastSegment(pieceURL),
				Host:       NoPayStationHost,
				SizeBytes:  size,
				SizeString: sizeString,
				SourceURL:  pageURL,
			})
		}
	} else {
		links = append(links, catalog.Link{
			Name:       name,
			Type:       src.Type,
			Format:     src.Format,
			URL:        pkgURL,
			Filename:   lastSegment(pkgURL),
			Host:       NoPayStationHost,
			SizeBytes:  size,
			SizeString: sizeString,
			SourceURL:  pageURL,
		})
	}

	switch platformID {
	case "ps3":
		link, ok, err := n.rapLink(row, pageURL)
		if err != nil {
			return nil, err
		}
		if ok {
			links = append(links, link)
		}
	case "psv":
		link, ok, err := n.zrifLink(row, pageURL)
		if err != nil {
			return nil, err
		}
		if ok {
			links = append(links, link)
		}
	}
	return links, nil
}

type pieceManifest struct {
	Pieces []struct {
		URL string `xml:"url,attr"`
	} `xml:"pieces"`
}

// pieces expands a split package manifest into its piece URLs. A manifest
// that cannot be retrieved contributes no links.
func (n *NoPayStation) pieces(ctx context.Context, manifestURL string, useCache bool) ([]string, error) {
	body, err := n.fetcher.Get(ctx, manifestURL, useCache)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.WarnWithContext(n.logger, "package manifest unavailable", "package_manifest_unavailable",
			logging.String("url", manifestURL),
			logging.Error(err),
			logging.String(logging.FieldImpact, "package pieces are not linked"))
		return nil, nil
	}
	var manifest pieceManifest
	if err := xml.Unmarshal([]byte(body), &manifest); err != nil {
		return nil, services.Wrap(services.ErrParse, NoPayStationHost, "package manifest", manifestURL, err)
	}
	urls := make([]string, 0, len(manifest.Pieces))
	for _, piece := range manifest.Pieces {
		urls = append(urls, piece.URL)
	}
	return urls, nil
}

func (n *NoPayStation) rapLink(row nopsRow, pageURL string) (catalog.Link, bool, error) {
	rap := row.get("RAP")
	contentID := row.get("Content ID")
	if len(rap) != rapHexLength || contentID == "" {
		return catalog.Link{}, false, nil
	}
	data, err := hex.DecodeString(rap)
	if err != nil {
		return catalog.Link{}, false, services.Wrap(services.ErrParse, NoPayStationHost, "rap", contentID, err)
	}
	filename := textutil.SanitizeFileName(contentID) + ".rap"
	if err := n.writeStatic(ps3RapsPath, filename, data); err != nil {
		return catalog.Link{}, false, err
	}
	return catalog.Link{
		Name:       row.get("Name"),
		Type:       "RAP file",
		Format:     "rap",
		URL:        normalize.JoinURL(n.siteURL, "static", ps3RapsPath, filename),
		Filename:   filename,
		Host:       NoPayStationHost,
		SizeBytes:  rapFileLength,
		SizeString: normalize.FormatSize(rapFileLength),
		SourceURL:  pageURL,
	}, true, nil
}

func (n *NoPayStation) zrifLink(row nopsRow, pageURL string) (catalog.Link, bool, error) {
	zrif := row.get("zRIF")
	contentID := row.get("Content ID")
	if zrif == "" || contentID == "" {
		return catalog.Link{}, false, nil
	}
	filename := textutil.SanitizeFileName(contentID)
	if err := n.writeStatic(psvZRIFsPath, filename, []byte(zrif)); err != nil {
		return catalog.Link{}, false, err
	}
	return catalog.Link{
		Name:       row.get("Name"),
		Type:       "ZRIF string",
		Format:     "string",
		URL:        normalize.JoinURL(n.siteURL, "static", psvZRIFsPath, filename),
		Filename:   filename,
		Host:       NoPayStationHost,
		SizeBytes:  int64(len(zrif)),
		SizeString: normalize.FormatSize(int64(len(zrif))),
		SourceURL:  pageURL,
	}, true, nil
}

func (n *NoPayStation) writeStatic(dir, filename string, data []byte) error {
	path := filepath.Join(n.staticDir, filepath.FromSlash(dir), filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func lastSegment(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
