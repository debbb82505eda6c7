package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// gametdbExport is one zipped XML export and the file it unpacks to.
type gametdbExport struct {
	path string
	xml  string
}

var gametdbExports = []gametdbExport{
	{"dstdb.zip?LANG=EN", "dstdb.xml"},
	{"wiitdb.zip?LANG=EN&WIIWARE=1&GAMECUBE=1", "wiitdb.xml"},
	{"3dstdb.zip?LANG=EN", "3dstdb.xml"},
	{"wiiutdb.zip?LANG=EN", "wiiutdb.xml"},
	{"ps3tdb.zip?LANG=EN", "ps3tdb.xml"},
}

// fetchGameTDB downloads each export and unpacks it into <dir>/gametdb. A
// failed export is tolerated when an earlier copy of its XML is present.
func (d *Downloader) fetchGameTDB(ctx context.Context, scratch string) (Result, error) {
	dst := filepath.Join(d.opts.Dir, "gametdb")
	result := Result{Set: SetGameTDB, Dir: dst}
	fmt.Fprintln(d.progress, "Downloading GameTDB XML files...")

	base := strings.TrimRight(d.opts.GameTDBURL, "/")
	for _, export := range gametdbExports {
		rawURL := base + "/" + export.path
		archive := filepath.Join(scratch, strings.TrimSuffix(export.xml, ".xml")+".zip")

		written, err := d.unpackGameTDB(ctx, rawURL, archive, dst)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if _, statErr := os.Stat(filepath.Join(dst, export.xml)); statErr != nil {
				return result, services.Wrap(services.ErrFetch, "metadata", "gametdb", export.xml, err)
			}
			logging.WarnWithContext(d.logger, "gametdb download failed; keeping existing file", "gametdb_download_failed",
				logging.String("url", rawURL),
				logging.String("file", export.xml),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access to metadata.gametdb_download_url"),
				logging.String(logging.FieldImpact, "the gametdb parser reads the previous export"))
			fmt.Fprintf(d.progress, "  %s: download failed, keeping existing file\n", export.xml)
			result.Kept++
			continue
		}
		result.Files += written
		fmt.Fprintf(d.progress, "  %s\n", export.xml)
	}
	return result, nil
}

func (d *Downloader) unpackGameTDB(ctx context.Context, rawURL, archive, dst string) (int, error) {
	if _, err := d.opts.Fetcher.Download(ctx, rawURL, archive); err != nil {
		return 0, err
	}
	defer os.Remove(archive)
	written, err := extractZip(archive, dst, d.logger)
	if err != nil {
		return written, err
	}
	if written == 0 {
		return 0, services.Wrap(services.ErrParse, "metadata", "gametdb", rawURL+" is an empty archive", nil)
	}
	return written, nil
}
