package scrapers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/fetch"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
)

const (
	// InternetArchiveHost is the host label on Internet Archive links.
	InternetArchiveHost = "Internet Archive"

	loginRequiredSuffix = " (Requires Internet Archive Log in)"
)

// SessionFetcher is a Fetcher that can open a login session.
type SessionFetcher interface {
	Fetcher
	Login(ctx context.Context, loginURL string, creds fetch.Credentials) (*fetch.Client, error)
}

// InternetArchive scrapes archive.org download listings. Some collections
// only list their files to signed-in users: when a page yields nothing, the
// scraper logs in once and retries the page with that session, marking the
// resulting links as requiring a login.
type InternetArchive struct {
	fetcher  SessionFetcher
	loginURL string
	creds    fetch.Credentials
	logger   *slog.Logger

	session Fetcher
}

// NewInternetArchive returns an Internet Archive scraper. The login session
// is opened lazily and shared by every later Scrape call.
func NewInternetArchive(fetcher SessionFetcher, loginURL string, creds fetch.Credentials, logger *slog.Logger) *InternetArchive {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InternetArchive{
		fetcher:  fetcher,
		loginURL: loginURL,
		creds:    creds,
		logger:   logging.NewComponentLogger(logger, "internet_archive"),
	}
}

// Scrape implements the pipeline scraper contract.
func (s *InternetArchive) Scrape(ctx context.Context, src config.Source, platformID string, useCache bool) ([]catalog.Record, error) {
	filter, err := newTitleFilter(src)
	if err != nil {
		return nil, err
	}

	var records []catalog.Record
	for _, pageURL := range src.URLs {
		page, err := s.scrapePage(ctx, s.fetcher, filter, src, platformID, pageURL, useCache)
		if err != nil {
			return nil, err
		}
		if len(page) > 0 {
			records = append(records, page...)
			continue
		}

		session, err := s.loginSession(ctx)
		if err != nil {
			return nil, err
		}
		page, err = s.scrapePage(ctx, session, filter, src, platformID, pageURL, useCache)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			logging.WarnWithContext(s.logger, "no entries parsed from listing", "listing_empty",
				logging.String("url", pageURL),
				logging.String(logging.FieldErrorHint, "check the source filter and that the account can see the collection"),
				logging.String(logging.FieldImpact, "this listing contributes no records"))
			continue
		}
		for i := range page {
			for j := range page[i].Links {
				page[i].Links[j].Type += loginRequiredSuffix
			}
		}
		records = append(records, page...)
	}
	return records, nil
}

func (s *InternetArchive) scrapePage(ctx context.Context, fetcher Fetcher, filter titleFilter, src config.Source, platformID, pageURL string, useCache bool) ([]catalog.Record, error) {
	body, err := fetcher.Get(ctx, pageURL, useCache)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(InternetArchiveHost, pageURL, body)
	if err != nil {
		return nil, err
	}
	return listingRecords(internetArchiveRows(doc), filter, src, platformID, InternetArchiveHost, pageURL, normalize.ParseSize)
}

func (s *InternetArchive) loginSession(ctx context.Context) (Fetcher, error) {
	if s.session != nil {
		return s.session, nil
	}
	session, err := s.fetcher.Login(ctx, s.loginURL, s.creds)
	if err != nil {
		return nil, err
	}
	s.session = session
	return session, nil
}

// internetArchiveRows reads name and size from the first and third cells of
// each listing row.
func internetArchiveRows(doc *goquery.Document) []listingRow {
	var rows []listingRow
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() < 3 {
			return
		}
		link := cells.Eq(0).Find("a").First()
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
