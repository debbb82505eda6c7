// Package config loads, normalizes, and validates crocdb configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// Internet Archive credentials (CROCDB_IA_USERNAME, CROCDB_IA_PASSWORD). The
// package also parses the sources manifest that declares, per platform, the
// ordered scraper and parser chain feeding the catalog.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
