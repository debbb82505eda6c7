package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/services"
)

var libretroTrees = []string{"dat", "metadat"}

var mameTrees = []string{"hash"}

// fetchLibretro copies the dat and metadat trees of the libretro database
// into <dir>/libretro.
func (d *Downloader) fetchLibretro(ctx context.Context, scratch string) (Result, error) {
	fmt.Fprintln(d.progress, "Downloading Libretro DAT files...")
	return d.fetchRepository(ctx, SetLibretro, d.opts.LibretroDatabaseURL, scratch,
		filepath.Join(d.opts.Dir, "libretro"), libretroTrees)
}

// fetchMAME copies the hash tree of the MAME repository into
// <dir>/mame/hash.
func (d *Downloader) fetchMAME(ctx context.Context, scratch string) (Result, error) {
	fmt.Fprintln(d.progress, "Downloading MAME hash files...")
	result, err := d.fetchRepository(ctx, SetMAME, d.opts.MAMEArchiveURL, scratch,
		filepath.Join(d.opts.Dir, "mame"), mameTrees)
	result.Dir = filepath.Join(result.Dir, "hash")
	return result, err
}

// fetchRepository downloads a repository tarball and copies the named
// top-level trees into dst. Existing files are overwritten; files absent from
// the archive are left in place.
func (d *Downloader) fetchRepository(ctx context.Context, set, rawURL, scratch, dst string, trees []string) (Result, error) {
	result := Result{Set: set, Dir: dst}
	archive := filepath.Join(scratch, set+".tar.gz")
	if _, err := d.opts.Fetcher.Download(ctx, rawURL, archive); err != nil {
		return result, err
	}
	defer os.Remove(archive)

	written, err := extractTarGz(archive, dst, trees, d.logger)
	if err != nil {
		return result, err
	}
	if written == 0 {
		return result, services.Wrap(services.ErrParse, "metadata", set,
			fmt.Sprintf("archive %s has no %s directory", rawURL, strings.Join(trees, " or ")), nil)
	}
	result.Files = written
	return result, nil
}
