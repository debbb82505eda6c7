package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.StaticDir = filepath.Join(base, "static")
	cfgVal.Paths.MetadataDir = filepath.Join(base, "metadata")
	cfgVal.Paths.SourcesFile = filepath.Join(base, "sources.toml")
	cfgVal.Paths.StaticFilesDir = ""
	cfgVal.Paths.LogDir = ""
	cfgVal.Metadata.BoxartCacheFile = filepath.Join(base, "boxart_cache.json")
	cfgVal.InternetArchive = config.InternetArchive{}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSources writes content as the sources manifest of the test config.
func WithSources(content string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.Paths.SourcesFile, []byte(content), 0o644); err != nil {
			b.t.Fatalf("write sources manifest: %v", err)
		}
	}
}

// WithStaticFilesDir enables the post-publish static artifact hand-off.
func WithStaticFilesDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.StaticFilesDir = filepath.Join(b.baseDir, "public")
	}
}

// WithCredentials sets Internet Archive credentials on the test config.
func WithCredentials(username, password string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.InternetArchive.Username = username
		b.cfg.InternetArchive.Password = password
	}
}

// WithMetadataMirror points every metadata download at baseURL: GameTDB
// exports under /gametdb, and the libretro and MAME tarballs at
// /libretro.tar.gz and /mame.tar.gz.
func WithMetadataMirror(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metadata.GameTDBDownloadURL = baseURL + "/gametdb"
		b.cfg.Metadata.LibretroDatabaseURL = baseURL + "/libretro.tar.gz"
		b.cfg.Metadata.MAMEArchiveURL = baseURL + "/mame.tar.gz"
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
