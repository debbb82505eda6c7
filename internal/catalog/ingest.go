package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
)

// Ingest merges rec into the staging catalog.
//
// A new identity inserts the entry, its search row, its regions and its
// links. An existing identity only fills unset scalar fields and appends
// links; its regions are left as first recorded. There is no rollback inside
// a call: statements already executed stay in the run transaction.
func (s *Store) Ingest(ctx context.Context, rec Record) (IngestResult, error) {
	if err := s.writable(); err != nil {
		return IngestResult{}, err
	}
	if strings.TrimSpace(rec.Title) == "" {
		return IngestResult{}, fmt.Errorf("%w: empty title (platform %s)", ErrInvalidRecord, rec.PlatformID)
	}
	if strings.TrimSpace(rec.PlatformID) == "" {
		return IngestResult{}, fmt.Errorf("%w: empty platform for %q", ErrInvalidRecord, rec.Title)
	}

	identity := normalize.DeriveIdentity(rec.Title, rec.PlatformID, rec.Regions)
	incoming := EntryFields{
		ExternalID:  rec.ExternalID,
		SearchToken: normalize.DeriveSearchToken(rec.Title),
		Title:       rec.Title,
		PlatformID:  rec.PlatformID,
		BoxartURL:   rec.BoxartURL,
	}
	result := IngestResult{Identity: identity}

	rowID, existing, found, err := s.lookupEntry(ctx, identity)
	if err != nil {
		return result, err
	}

	if found {
		merged, filled := MergeFields(existing, incoming)
		result.Filled = filled
		if len(filled) > 0 {
			if err := s.updateEntry(ctx, rowID, identity, existing, merged); err != nil {
				return result, err
			}
		}
	} else {
		result.Created = true
		if err := s.insertEntry(ctx, identity, incoming, rec.Regions); err != nil {
			return result, err
		}
	}

	for _, link := range rec.Links {
		added, err := s.insertLink(ctx, identity, link)
		if err != nil {
			return result, err
		}
		if added {
			result.LinksAdded++
		} else {
			result.LinksIgnored++
		}
	}

	s.logger.Debug("record ingested",
		logging.String("identity", identity),
		logging.Bool("created", result.Created),
		logging.Int("filled", len(result.Filled)),
		logging.Int("links_added", result.LinksAdded),
		logging.Int("links_ignored", result.LinksIgnored))
	return result, nil
}

func (s *Store) lookupEntry(ctx context.Context, identity string) (int64, EntryFields, bool, error) {
	var (
		rowID      int64
		fields     EntryFields
		externalID sql.NullString
		boxartURL  sql.NullString
	)
	err := s.tx.QueryRowContext(ctx,
		`SELECT rowid, external_id, search_token, title, platform, boxart_url
         FROM entries WHERE identity = ?`,
		identity,
	).Scan(&rowID, &externalID, &fields.SearchToken, &fields.Title, &fields.PlatformID, &boxartURL)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, EntryFields{}, false, nil
	}
	if err != nil {
		return 0, EntryFields{}, false, fmt.Errorf("lookup entry %s: %w", identity, err)
	}
	fields.ExternalID = stringOrEmpty(externalID)
	fields.BoxartURL = stringOrEmpty(boxartURL)
	return rowID, fields, true, nil
}

func (s *Store) insertEntry(ctx context.Context, identity string, fields EntryFields, regions []string) error {
	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO entries (identity, external_id, search_token, title, platform, boxart_url)
         VALUES (?, ?, ?, ?, ?, ?)`,
		identity,
		nullableString(fields.ExternalID),
		fields.SearchToken,
		fields.Title,
		fields.PlatformID,
		nullableString(fields.BoxartURL),
	)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", identity, err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	if _, err := s.tx.ExecContext(ctx,
		"INSERT INTO entries_search (rowid, search_token) VALUES (?, ?)",
		rowID, fields.SearchToken,
	); err != nil {
		return fmt.Errorf("index entry %s: %w", identity, err)
	}
	for _, region := range regions {
		if _, err := s.tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO entry_regions (entry, region) VALUES (?, ?)",
			identity, region,
		); err != nil {
			return fmt.Errorf("insert region %s for %s: %w", region, identity, err)
		}
	}
	return nil
}

func (s *Store) updateEntry(ctx context.Context, rowID int64, identity string, before, after EntryFields) error {
	if _, err := s.tx.ExecContext(ctx,
		`UPDATE entries
         SET external_id = ?, search_token = ?, title = ?, platform = ?, boxart_url = ?
         WHERE identity = ?`,
		nullableString(after.ExternalID),
		after.SearchToken,
		after.Title,
		after.PlatformID,
		nullableString(after.BoxartURL),
		identity,
	); err != nil {
		return fmt.Errorf("update entry %s: %w", identity, err)
	}
	if before.SearchToken == after.SearchToken {
		return nil
	}
	// External content tables need the old value to remove the stale row.
	if _, err := s.tx.ExecContext(ctx,
		"INSERT INTO entries_search (entries_search, rowid, search_token) VALUES ('delete', ?, ?)",
		rowID, before.SearchToken,
	); err != nil {
		return fmt.Errorf("unindex entry %s: %w", identity, err)
	}
	if _, err := s.tx.ExecContext(ctx,
		"INSERT INTO entries_search (rowid, search_token) VALUES (?, ?)",
		rowID, after.SearchToken,
	); err != nil {
		return fmt.Errorf("reindex entry %s: %w", identity, err)
	}
	return nil
}

// insertLink appends link to the entry. It reports false when the exact
// tuple is already stored.
func (s *Store) insertLink(ctx context.Context, identity string, link Link) (bool, error) {
	res, err := s.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO links (entry, name, type, format, url, filename, host, size, size_str, source_url)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		identity,
		link.Name,
		link.Type,
		link.Format,
		link.URL,
		link.Filename,
		link.Host,
		link.SizeBytes,
		link.SizeString,
		link.SourceURL,
	)
	if err != nil {
		return false, fmt.Errorf("insert link for %s: %w", identity, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link rows affected: %w", err)
	}
	return affected > 0, nil
}
