package scrapers

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
)

// MyrientHost is the host label on Myrient links.
const MyrientHost = "Myrient"

// Myrient scrapes Myrient directory listings. Sizes are human readable
// ("1.5 MiB") and are re-rendered in catalog form.
type Myrient struct {
	fetcher Fetcher
}

// NewMyrient returns a Myrient scraper.
func NewMyrient(fetcher Fetcher) *Myrient {
	return &Myrient{fetcher: fetcher}
}

// Scrape implements the pipeline scraper contract.
func (m *Myrient) Scrape(ctx context.Context, src config.Source, platformID string, useCache bool) ([]catalog.Record, error) {
	return scrapeListings(ctx, m.fetcher, src, platformID, MyrientHost, useCache, myrientRows, normalize.ParseSize)
}

func myrientRows(doc *goquery.Document) []listingRow {
	var rows []listingRow
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		link := tr.Find("td.link a[title]").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		rows = append(rows, listingRow{
			href: href,
			name: link.Text(),
			size: strings.TrimSpace(tr.Find("td.size").First().Text()),
		})
	})
	return rows
}
