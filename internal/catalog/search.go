package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/normalize"
)

const defaultSearchLimit = 50

// trigram tokens need at least three characters to match anything.
const minTrigramLength = 3

// Search finds entries whose search token contains the normalized query.
// Queries of three or more characters use the trigram index; shorter ones
// fall back to a LIKE scan. Results favour the closest (shortest) tokens.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) ([]Entry, error) {
	if err := s.readable(); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	token := normalize.DeriveSearchToken(query)
	var (
		where []string
		args  []any
		from  = "entries e"
	)
	switch {
	case len(token) >= minTrigramLength:
		from = "entries_search s JOIN entries e ON e.rowid = s.rowid"
		where = append(where, "entries_search MATCH ?")
		args = append(args, `"`+token+`"`)
	case token != "":
		where = append(where, "e.search_token LIKE ?")
		args = append(args, "%"+token+"%")
	}
	if opts.Platform != "" {
		where = append(where, "e.platform = ?")
		args = append(args, opts.Platform)
	}
	if opts.Region != "" {
		where = append(where, "EXISTS (SELECT 1 FROM entry_regions r WHERE r.entry = e.identity AND r.region = ?)")
		args = append(args, opts.Region)
	}

	query = "SELECT e.identity, e.external_id, e.search_token, e.title, e.platform, e.boxart_url FROM " + from
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY length(e.search_token), e.title, e.identity LIMIT ?"
	args = append(args, limit)

	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}

	for i := range entries {
		if entries[i].Regions, err = s.entryRegions(ctx, entries[i].Identity); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Entry returns one entry with its regions and links.
func (s *Store) Entry(ctx context.Context, identity string) (*Entry, error) {
	if err := s.readable(); err != nil {
		return nil, err
	}
	row := s.q().QueryRowContext(ctx,
		`SELECT identity, external_id, search_token, title, platform, boxart_url
         FROM entries WHERE identity = ?`,
		identity,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identity)
	}
	if err != nil {
		return nil, err
	}
	if entry.Regions, err = s.entryRegions(ctx, identity); err != nil {
		return nil, err
	}
	if entry.Links, err = s.entryLinks(ctx, identity); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Platforms lists the reference platforms in seed order with entry counts.
func (s *Store) Platforms(ctx context.Context) ([]Platform, error) {
	if err := s.readable(); err != nil {
		return nil, err
	}
	rows, err := s.q().QueryContext(ctx,
		`SELECT p.id, p.brand, p.name, COUNT(e.identity)
         FROM platforms p LEFT JOIN entries e ON e.platform = p.id
         GROUP BY p.id ORDER BY p.rowid`)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var platforms []Platform
	for rows.Next() {
		var p Platform
		if err := rows.Scan(&p.ID, &p.Brand, &p.Name, &p.EntryCount); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// Regions lists the reference regions in seed order.
func (s *Store) Regions(ctx context.Context) ([]Region, error) {
	if err := s.readable(); err != nil {
		return nil, err
	}
	rows, err := s.q().QueryContext(ctx, "SELECT id, name FROM regions ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var r Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// Stats returns row counts for the catalog.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := s.readable(); err != nil {
		return Stats{}, err
	}
	var stats Stats
	err := s.q().QueryRowContext(ctx, `SELECT
        (SELECT COUNT(1) FROM entries),
        (SELECT COUNT(1) FROM links),
        (SELECT COUNT(DISTINCT platform) FROM entries),
        (SELECT COUNT(1) FROM entry_regions),
        (SELECT COUNT(1) FROM entries WHERE boxart_url IS NOT NULL)`,
	).Scan(&stats.Entries, &stats.Links, &stats.Platforms, &stats.EntryRegions, &stats.EntriesBoxart)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	return stats, nil
}

func (s *Store) entryRegions(ctx context.Context, identity string) ([]string, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT r.region FROM entry_regions r JOIN regions g ON g.id = r.region
         WHERE r.entry = ? ORDER BY g.rowid`,
		identity,
	)
	if err != nil {
		return nil, fmt.Errorf("list regions for %s: %w", identity, err)
	}
	defer rows.Close()

	var regions []string
	for rows.Next() {
		var region string
		if err := rows.Scan(&region); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

func (s *Store) entryLinks(ctx context.Context, identity string) ([]Link, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT name, type, format, url, filename, host, size, size_str, source_url
         FROM links WHERE entry = ? ORDER BY rowid`,
		identity,
	)
	if err != nil {
		return nil, fmt.Errorf("list links for %s: %w", identity, err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.Name, &l.Type, &l.Format, &l.URL, &l.Filename, &l.Host, &l.SizeBytes, &l.SizeString, &l.SourceURL); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry      Entry
		externalID sql.NullString
		boxartURL  sql.NullString
	)
	if err := row.Scan(&entry.Identity, &externalID, &entry.SearchToken, &entry.Title, &entry.PlatformID, &boxartURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	entry.ExternalID = stringOrEmpty(externalID)
	entry.BoxartURL = stringOrEmpty(boxartURL)
	return entry, nil
}
