package scrapers

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Fetcher retrieves listing pages.
type Fetcher interface {
	Get(ctx context.Context, url string, useCache bool) (string, error)
}

// listingRow is one file row of an HTML directory listing.
type listingRow struct {
	href string
	name string
	size string
}

// listingFunc extracts file rows from a parsed listing page.
type listingFunc func(doc *goquery.Document) []listingRow

func parseDocument(component, pageURL, body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrParse, component, "parse listing", pageURL, err)
	}
	return doc, nil
}

// titleFilter selects listing files and derives their titles.
type titleFilter struct {
	re *regexp.Regexp
}

func newTitleFilter(src config.Source) (titleFilter, error) {
	re, err := src.FilterPattern()
	if err != nil {
		return titleFilter{}, services.Wrap(services.ErrConfiguration, "scrapers", "filter", "", err)
	}
	return titleFilter{re: re}, nil
}

// match reports whether name is accepted and returns its title. The pattern
// must match at the start of name; its first group is the title, or the
// whole match when the pattern has no groups. Without a pattern every file
// is accepted and titled by its name without extension.
func (f titleFilter) match(name string) (string, bool) {
	if f.re == nil {
		return normalize.RemoveExt(name), true
	}
	loc := f.re.FindStringSubmatchIndex(name)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		return name[loc[2]:loc[3]], true
	}
	return name[loc[0]:loc[1]], true
}

// isDirectory reports whether a listing href points at a sub-directory.
func isDirectory(href string) bool {
	return href == "" || strings.HasSuffix(href, "/")
}

// fileRecord builds the record for one listed file.
func fileRecord(src config.Source, platformID, host, pageURL, href, filename, title string, size int64) catalog.Record {
	return catalog.Record{
		Title:      title,
		PlatformID: platformID,
		Regions:    slices.Clone(src.Regions),
		Links: []catalog.Link{{
			Name:       title,
			Type:       src.Type,
			Format:     src.Format,
			URL:        normalize.JoinURL(pageURL, href),
			Filename:   filename,
			Host:       host,
			SizeBytes:  size,
			SizeString: normalize.FormatSize(size),
			SourceURL:  pageURL,
		}},
	}
}

// listingRecords converts the filtered rows of one page into records.
// parseSize reads the size column of the host.
func listingRecords(rows []listingRow, filter titleFilter, src config.Source, platformID, host, pageURL string, parseSize func(string) (int64, error)) ([]catalog.Record, error) {
	var records []catalog.Record
	for _, row := range rows {
		if isDirectory(row.href) {
			continue
		}
		title, ok := filter.match(row.name)
		if !ok {
			continue
		}
		size, err := parseSize(row.size)
		if err != nil {
			return nil, services.Wrap(services.ErrParse, host, "size", fmt.Sprintf("%s on %s", row.name, pageURL), err)
		}
		records = append(records, fileRecord(src, platformID, host, pageURL, row.href, row.name, title, size))
	}
	return records, nil
}

// scrapeListings fetches every source URL and extracts its records. A page
// that yields no records fails the scrape.
func scrapeListings(ctx context.Context, fetcher Fetcher, src config.Source, platformID, host string, useCache bool, rows listingFunc, parseSize func(string) (int64, error)) ([]catalog.Record, error) {
	filter, err := newTitleFilter(src)
	if err != nil {
		return nil, err
	}
	var records []catalog.Record
	for _, pageURL := range src.URLs {
		body, err := fetcher.Get(ctx, pageURL, useCache)
		if err != nil {
			return nil, err
		}
		doc, err := parseDocument(host, pageURL, body)
		if err != nil {
			return nil, err
		}
		page, err := listingRecords(rows(doc), filter, src, platformID, host, pageURL, parseSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return nil, services.Wrap(services.ErrFetch, host, "scrape", "no entries parsed from "+pageURL, nil)
		}
		records = append(records, page...)
	}
	return records, nil
}
