package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateURLs(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.SourcesFile) == "" {
		return errors.New("paths.sources_file must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	name := c.Catalog.DatabaseName
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("catalog.database_name must be a file name, got %q", name)
	}
	if !strings.HasSuffix(name, ".db") {
		return fmt.Errorf("catalog.database_name must end in .db, got %q", name)
	}
	if name == ".db" {
		return errors.New("catalog.database_name must have a base name")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.New("fetch.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateURLs() error {
	for key, value := range map[string]string{
		"fetch.login_url":                  c.Fetch.LoginURL,
		"site.base_url":                    c.Site.BaseURL,
		"metadata.libretro_thumbnails_url": c.Metadata.LibretroThumbnailsURL,
		"metadata.gametdb_art_url":         c.Metadata.GameTDBArtURL,
		"metadata.gametdb_download_url":    c.Metadata.GameTDBDownloadURL,
		"metadata.libretro_database_url":   c.Metadata.LibretroDatabaseURL,
		"metadata.mame_archive_url":        c.Metadata.MAMEArchiveURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
