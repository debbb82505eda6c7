package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths and fills blanks. Relative sources_file values are
// resolved against the directory of the config file when one was loaded.
func (c *Config) normalize(configDir string, fromFile bool) error {
	if err := c.normalizePaths(configDir, fromFile); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeFetch()
	c.normalizeInternetArchive()
	c.normalizeSite()
	if err := c.normalizeMetadata(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths(configDir string, fromFile bool) error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.data_dir", &c.Paths.DataDir, defaultDataDir},
		{"paths.cache_dir", &c.Paths.CacheDir, defaultCacheDir},
		{"paths.static_dir", &c.Paths.StaticDir, defaultStaticDir},
		{"paths.metadata_dir", &c.Paths.MetadataDir, defaultMetadataDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}

	var err error
	if c.Paths.StaticFilesDir, err = expandPath(strings.TrimSpace(c.Paths.StaticFilesDir)); err != nil {
		return fmt.Errorf("paths.static_files_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	sources := strings.TrimSpace(c.Paths.SourcesFile)
	if sources == "" {
		sources = defaultSourcesFile
	}
	if fromFile && !strings.HasPrefix(sources, "~") && !filepath.IsAbs(sources) {
		sources = filepath.Join(configDir, sources)
	}
	if c.Paths.SourcesFile, err = expandPath(sources); err != nil {
		return fmt.Errorf("paths.sources_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.DatabaseName = strings.TrimSpace(c.Catalog.DatabaseName)
	if c.Catalog.DatabaseName == "" {
		c.Catalog.DatabaseName = defaultDatabaseName
	}
}

func (c *Config) normalizeFetch() {
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}
	c.Fetch.LoginURL = strings.TrimSpace(c.Fetch.LoginURL)
	if c.Fetch.LoginURL == "" {
		c.Fetch.LoginURL = defaultLoginURL
	}
}

func (c *Config) normalizeInternetArchive() {
	c.InternetArchive.Username = strings.TrimSpace(c.InternetArchive.Username)
	if c.InternetArchive.Username == "" {
		if value, ok := os.LookupEnv("CROCDB_IA_USERNAME"); ok {
			c.InternetArchive.Username = strings.TrimSpace(value)
		}
	}
	if c.InternetArchive.Password == "" {
		if value, ok := os.LookupEnv("CROCDB_IA_PASSWORD"); ok {
			c.InternetArchive.Password = value
		}
	}
}

func (c *Config) normalizeSite() {
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = defaultSiteBaseURL
	}
}

func (c *Config) normalizeMetadata() error {
	c.Metadata.LibretroThumbnailsURL = strings.TrimRight(strings.TrimSpace(c.Metadata.LibretroThumbnailsURL), "/")
	if c.Metadata.LibretroThumbnailsURL == "" {
		c.Metadata.LibretroThumbnailsURL = defaultLibretroThumbnailsURL
	}
	c.Metadata.GameTDBArtURL = strings.TrimRight(strings.TrimSpace(c.Metadata.GameTDBArtURL), "/")
	if c.Metadata.GameTDBArtURL == "" {
		c.Metadata.GameTDBArtURL = defaultGameTDBArtURL
	}
	for _, field := range []struct {
		value *string
		def   string
	}{
		{&c.Metadata.GameTDBDownloadURL, defaultGameTDBDownloadURL},
		{&c.Metadata.LibretroDatabaseURL, defaultLibretroDatabaseURL},
		{&c.Metadata.MAMEArchiveURL, defaultMAMEArchiveURL},
	} {
		*field.value = strings.TrimRight(strings.TrimSpace(*field.value), "/")
		if *field.value == "" {
			*field.value = field.def
		}
	}
	var err error
	if c.Metadata.BoxartCacheFile, err = expandPath(strings.TrimSpace(c.Metadata.BoxartCacheFile)); err != nil {
		return fmt.Errorf("metadata.boxart_cache_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
