package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration. Every value is expanded to an
// absolute path during Load.
type Paths struct {
	DataDir        string `toml:"data_dir"`
	CacheDir       string `toml:"cache_dir"`
	StaticDir      string `toml:"static_dir"`
	StaticFilesDir string `toml:"static_files_dir"`
	MetadataDir    string `toml:"metadata_dir"`
	SourcesFile    string `toml:"sources_file"`
	LogDir         string `toml:"log_dir"`
}

// Catalog contains configuration for the published catalog database.
type Catalog struct {
	DatabaseName string `toml:"database_name"`
}

// Fetch contains configuration for remote index retrieval.
type Fetch struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	LoginURL       string `toml:"login_url"`
}

// InternetArchive contains the credentials used when a listing is only
// visible to signed-in users.
type InternetArchive struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Site contains configuration for the public site the catalog is served from.
type Site struct {
	BaseURL string `toml:"base_url"`
}

// Metadata contains upstream locations for reference artwork and for the
// reference databases downloaded into metadata_dir.
type Metadata struct {
	LibretroThumbnailsURL string `toml:"libretro_thumbnails_url"`
	GameTDBArtURL         string `toml:"gametdb_art_url"`
	BoxartCacheFile       string `toml:"boxart_cache_file"`
	GameTDBDownloadURL    string `toml:"gametdb_download_url"`
	LibretroDatabaseURL   string `toml:"libretro_database_url"`
	MAMEArchiveURL        string `toml:"mame_archive_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for crocdb.
//
// Configuration sections by subsystem:
//   - Paths: data, cache, static artifact and metadata directories
//   - Catalog: published database file name
//   - Fetch: HTTP session settings shared by scrapers and parsers
//   - InternetArchive: credentials for login-gated listings
//   - Site: public base URL used for generated static artifact links
//   - Metadata: box-art hosts, probe cache location and reference downloads
//   - Logging: log format and level
type Config struct {
	Paths           Paths           `toml:"paths"`
	Catalog         Catalog         `toml:"catalog"`
	Fetch           Fetch           `toml:"fetch"`
	InternetArchive InternetArchive `toml:"internet_archive"`
	Site            Site            `toml:"site"`
	Metadata        Metadata        `toml:"metadata"`
	Logging         Logging         `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(filepath.Dir(resolvedPath), exists); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("crocdb.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// DatabasePath returns the location of the published catalog.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, c.Catalog.DatabaseName)
}

// LockPath returns the location of the build lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "build.lock")
}

// EnsureDirectories creates the directories a build writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.CacheDir, c.Paths.StaticDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	return writeSample(path, sampleConfig, "config")
}

func writeSample(path, content, label string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", label, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sample %s: %w", label, err)
	}
	return nil
}
