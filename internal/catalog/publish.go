package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cavv-dev/crocdb-db/internal/fileutil"
	"github.com/cavv-dev/crocdb-db/internal/logging"
)

// Publish closes the staging catalog and promotes it. The current published
// file, if any, becomes the single backup generation. The published path is
// replaced by rename, so readers always see either the old or the new file.
func (s *Store) Publish() error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("flush staging catalog: %w", err)
	}

	if err := rotateBackup(s.paths); err != nil {
		return err
	}
	if err := os.Rename(s.paths.Staging, s.paths.Published); err != nil {
		return fmt.Errorf("promote staging catalog: %w", err)
	}

	s.logger.Info("catalog published",
		logging.String("path", s.paths.Published),
		logging.String("backup", s.paths.Backup))
	return nil
}

// rotateBackup replaces the backup slot with the current published file
// while leaving the published file in place.
func rotateBackup(paths Paths) error {
	if _, err := os.Stat(paths.Published); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat published catalog: %w", err)
	}
	if err := os.Remove(paths.Backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove old backup: %w", err)
	}
	if err := os.Link(paths.Published, paths.Backup); err == nil {
		return nil
	}
	if err := fileutil.CopyFileVerified(paths.Published, paths.Backup); err != nil {
		return fmt.Errorf("back up published catalog: %w", err)
	}
	return nil
}
