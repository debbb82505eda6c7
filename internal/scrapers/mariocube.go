package scrapers

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
)

// MarioCubeHost is the host label on MarioCube links.
const MarioCubeHost = "MarioCube"

// MarioCube scrapes MarioCube repository listings, whose size column is an
// exact byte count.
type MarioCube struct {
	fetcher Fetcher
}

// NewMarioCube returns a MarioCube scraper.
func NewMarioCube(fetcher Fetcher) *MarioCube {
	return &MarioCube{fetcher: fetcher}
}

// Scrape implements the pipeline scraper contract.
func (m *MarioCube) Scrape(ctx context.Context, src config.Source, platformID string, useCache bool) ([]catalog.Record, error) {
	return scrapeListings(ctx, m.fetcher, src, platformID, MarioCubeHost, useCache, marioCubeRows, parseByteCount)
}

// marioCubeRows keeps rows whose first cell is "-", which marks files.
func marioCubeRows(doc *goquery.Document) []listingRow {
	var rows []listingRow
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() < 3 || strings.TrimSpace(cells.Eq(0).Text()) != "-" {
			return
		}
		link := cells.Eq(1).Find("a").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		rows = append(rows, listingRow{
			href: href,
			name: link.Text(),
			size: strings.TrimSpace(cells.Eq(2).Text()),
		})
	})
	return rows
}

func parseByteCount(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
