package metadata

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// extractZip writes every regular file of the zip at archivePath into dst
// and returns how many were written.
func extractZip(archivePath, dst string, logger *slog.Logger) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, services.Wrap(services.ErrParse, "metadata", "open zip", filepath.Base(archivePath), err)
	}
	defer zr.Close()

	written := 0
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rel, ok := localName(file.Name)
		if !ok {
			skipEntry(logger, archivePath, file.Name)
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return written, services.Wrap(services.ErrParse, "metadata", "open zip entry", file.Name, err)
		}
		err = writeFile(filepath.Join(dst, rel), rc)
		rc.Close()
		if err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// extractTarGz writes the regular files of a repository tarball that sit
// under one of trees into dst, keeping their tree-relative paths. The
// archive's single top-level directory is stripped.
func extractTarGz(archivePath, dst string, trees []string, logger *slog.Logger) (int, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return 0, services.Wrap(services.ErrParse, "metadata", "open tarball", filepath.Base(archivePath), err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	written := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, services.Wrap(services.ErrParse, "metadata", "read tarball", filepath.Base(archivePath), err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		_, rest, ok := strings.Cut(hdr.Name, "/")
		if !ok {
			continue
		}
		rel, ok := localName(rest)
		if !ok {
			skipEntry(logger, archivePath, hdr.Name)
			continue
		}
		if !underTree(filepath.ToSlash(rel), trees) {
			continue
		}
		if err := writeFile(filepath.Join(dst, rel), tr); err != nil {
			return written, err
		}
		written++
	}
}

func underTree(name string, trees []string) bool {
	for _, tree := range trees {
		if strings.HasPrefix(name, tree+"/") {
			return true
		}
	}
	return false
}

// localName converts an archive entry name to a relative OS path that stays
// inside the extraction directory.
func localName(name string) (string, bool) {
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if cleaned == "." || path.IsAbs(cleaned) {
		return "", false
	}
	rel := filepath.FromSlash(cleaned)
	if !filepath.IsLocal(rel) {
		return "", false
	}
	return rel, true
}

func skipEntry(logger *slog.Logger, archivePath, name string) {
	logging.WarnWithContext(logger, "archive entry escapes destination; skipped", "archive_entry_skipped",
		logging.String("archive", filepath.Base(archivePath)),
		logging.String("entry", name),
		logging.String(logging.FieldErrorHint, "check the configured metadata download URL"),
		logging.String(logging.FieldImpact, "the entry is not extracted"))
}

// writeFile replaces target with the contents of r.
func writeFile(target string, r io.Reader) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	_, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("chmod %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}
