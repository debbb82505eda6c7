package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Catalogs are rebuilt from
// scratch on every run, so a mismatch only affects readers of old files.
const schemaVersion = 1

// ErrSchemaMismatch indicates the catalog was built with a different schema.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) createSchema(ctx context.Context) error {
	if _, err := s.tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

func (s *Store) seedReference(ctx context.Context) error {
	for _, p := range seedPlatforms {
		if _, err := s.tx.ExecContext(ctx,
			"INSERT INTO platforms (id, brand, name) VALUES (?, ?, ?)",
			p.ID, p.Brand, p.Name,
		); err != nil {
			return fmt.Errorf("seed platform %s: %w", p.ID, err)
		}
	}
	for _, r := range seedRegions {
		if _, err := s.tx.ExecContext(ctx,
			"INSERT INTO regions (id, name) VALUES (?, ?)",
			r.ID, r.Name,
		); err != nil {
			return fmt.Errorf("seed region %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Store) checkSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return fmt.Errorf("%w: %s has no schema_version table", ErrSchemaMismatch, s.path)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: catalog has version %d, expected %d (run 'crocdb build' to rebuild it)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}
