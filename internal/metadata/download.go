package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Metadata set names, in download order.
const (
	SetGameTDB  = "gametdb"
	SetLibretro = "libretro"
	SetMAME     = "mame"
)

// Sets returns every metadata set name in download order.
func Sets() []string {
	return []string{SetGameTDB, SetLibretro, SetMAME}
}

// Fetcher downloads a remote file to a local path.
type Fetcher interface {
	Download(ctx context.Context, rawURL, path string) (int64, error)
}

// Options configures a Downloader.
type Options struct {
	Dir                 string
	GameTDBURL          string
	LibretroDatabaseURL string
	MAMEArchiveURL      string
	Fetcher             Fetcher
	Progress            io.Writer
	Logger              *slog.Logger
}

// OptionsFromConfig fills the metadata directory and download locations
// from cfg.
func OptionsFromConfig(cfg *config.Config, fetcher Fetcher) Options {
	return Options{
		Dir:                 cfg.Paths.MetadataDir,
		GameTDBURL:          cfg.Metadata.GameTDBDownloadURL,
		LibretroDatabaseURL: cfg.Metadata.LibretroDatabaseURL,
		MAMEArchiveURL:      cfg.Metadata.MAMEArchiveURL,
		Fetcher:             fetcher,
	}
}

// Result describes one downloaded set.
type Result struct {
	Set   string `json:"set"`
	Dir   string `json:"dir"`
	Files int    `json:"files"`
	// Kept counts files whose download failed while an earlier copy exists.
	Kept int `json:"kept,omitempty"`
}

// Downloader refreshes metadata sets.
type Downloader struct {
	opts     Options
	progress io.Writer
	logger   *slog.Logger
}

// NewDownloader creates a Downloader from opts.
func NewDownloader(opts Options) *Downloader {
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	return &Downloader{
		opts:     opts,
		progress: progress,
		logger:   logging.NewComponentLogger(opts.Logger, "metadata"),
	}
}

// Run downloads the named sets, or every set when names is empty. It stops
// at the first set that cannot be refreshed.
func (d *Downloader) Run(ctx context.Context, names []string) ([]Result, error) {
	sets, err := selectSets(names)
	if err != nil {
		return nil, err
	}
	if d.opts.Fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "metadata", "run", "no fetcher configured", nil)
	}
	if strings.TrimSpace(d.opts.Dir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "metadata", "run", "metadata_dir is not set", nil)
	}
	if err := os.MkdirAll(d.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}
	// Archives are staged inside metadata_dir and removed afterwards.
	scratch, err := os.MkdirTemp(d.opts.Dir, ".download-")
	if err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	results := make([]Result, 0, len(sets))
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		d.logger.Info("metadata download started",
			logging.String(logging.FieldEventType, "metadata_download_start"),
			logging.String("set", set))

		var result Result
		switch set {
		case SetGameTDB:
			result, err = d.fetchGameTDB(ctx, scratch)
		case SetLibretro:
			result, err = d.fetchLibretro(ctx, scratch)
		case SetMAME:
			result, err = d.fetchMAME(ctx, scratch)
		}
		if err != nil {
			logging.ErrorWithContext(d.logger, "metadata download failed", "metadata_download_failed",
				logging.String("set", set),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.Error(err))
			return results, err
		}
		results = append(results, result)
		fmt.Fprintf(d.progress, "Saved %d files to '%s'.\n", result.Files, result.Dir)
		d.logger.Info("metadata download finished",
			logging.String(logging.FieldEventType, "metadata_download_complete"),
			logging.String("set", set),
			logging.Int("files", result.Files),
			logging.Int("kept", result.Kept))
	}
	return results, nil
}

func selectSets(names []string) ([]string, error) {
	if len(names) == 0 {
		return Sets(), nil
	}
	known := Sets()
	var sets []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if !slices.Contains(known, name) {
			return nil, services.Wrap(services.ErrConfiguration, "metadata", "select",
				fmt.Sprintf("unknown metadata set %q (known: %s)", name, strings.Join(known, ", ")), nil)
		}
		if !slices.Contains(sets, name) {
			sets = append(sets, name)
		}
	}
	// Download order follows Sets, not argument order.
	slices.SortFunc(sets, func(a, b string) int {
		return slices.Index(known, a) - slices.Index(known, b)
	})
	return sets, nil
}
