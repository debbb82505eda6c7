package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cavv-dev/crocdb-db/internal/logging"
)

var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("entry not found")
	// ErrNoCatalog is returned when no published catalog exists yet.
	ErrNoCatalog = errors.New("no published catalog")
	// ErrInvalidRecord is returned by Ingest for records that cannot be stored.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("catalog store closed")
	// ErrReadOnly is returned when a write is attempted on a published catalog.
	ErrReadOnly = errors.New("catalog opened read-only")
)

// Store is a handle on one catalog file. A staging store owns the run-wide
// write transaction; a published store is read-only.
type Store struct {
	db       *sql.DB
	tx       *sql.Tx
	path     string
	paths    Paths
	logger   *slog.Logger
	readOnly bool
	closed   bool
	closeErr error
}

// CreateStaging starts a fresh staging catalog next to the published path.
// Any staging file left behind by an earlier run is discarded first.
func CreateStaging(ctx context.Context, paths Paths, logger *slog.Logger) (*Store, error) {
	logger = logging.NewComponentLogger(logger, "catalog")

	if err := os.MkdirAll(filepath.Dir(paths.Staging), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}
	for _, leftover := range append([]string{paths.Staging}, sideFiles(paths.Staging)...) {
		if err := os.Remove(leftover); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove leftover staging file %s: %w", leftover, err)
		} else if err == nil {
			logger.Info("removed leftover staging file", logging.String("path", leftover))
		}
	}

	db, err := openDB(paths.Staging, []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = DELETE",
	})
	if err != nil {
		return nil, err
	}

	// The run transaction outlives cancellation so Close can still commit
	// what was ingested.
	tx, err := db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("begin run transaction: %w", err)
	}

	store := &Store{db: db, tx: tx, path: paths.Staging, paths: paths, logger: logger}
	if err := store.createSchema(ctx); err != nil {
		_ = store.abort()
		return nil, err
	}
	if err := store.seedReference(ctx); err != nil {
		_ = store.abort()
		return nil, err
	}

	logger.Debug("staging catalog created", logging.String("path", paths.Staging))
	return store, nil
}

// OpenPublished opens the catalog at path for reading.
func OpenPublished(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s (run 'crocdb build' first)", ErrNoCatalog, path)
		}
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	db, err := openDB(path, []string{"PRAGMA query_only = ON"})
	if err != nil {
		return nil, err
	}
	store := &Store{
		db:       db,
		path:     path,
		paths:    PathsFor(path),
		logger:   logging.NewComponentLogger(logger, "catalog"),
		readOnly: true,
	}
	if err := store.checkSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func openDB(path string, pragmas []string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the pragmas and the run transaction on the same handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close commits the run transaction, if any, and closes the database. It is
// safe to call more than once; later calls return the first result.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if s.closed {
		return s.closeErr
	}
	s.closed = true

	var errs []error
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			errs = append(errs, fmt.Errorf("commit run transaction: %w", err))
		}
		s.tx = nil
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close catalog: %w", err))
	}
	s.closeErr = errors.Join(errs...)
	return s.closeErr
}

// abort discards the run transaction. Only used while CreateStaging fails.
func (s *Store) abort() error {
	s.closed = true
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}

func (s *Store) writable() error {
	switch {
	case s == nil || s.db == nil:
		return ErrClosed
	case s.readOnly:
		return ErrReadOnly
	case s.closed || s.tx == nil:
		return ErrClosed
	}
	return nil
}

func (s *Store) readable() error {
	if s == nil || s.db == nil || s.closed {
		return ErrClosed
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx so read helpers work
// against staging and published stores alike.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q() queryer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}
