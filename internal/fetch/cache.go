package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cavv-dev/crocdb-db/internal/fileutil"
	"github.com/cavv-dev/crocdb-db/internal/textutil"
)

// Cache stores response bodies as files named after the sanitized URL.
// A Cache with an empty directory never hits and never writes.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir. The directory is created lazily.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Path returns the file that holds the cached response for url.
func (c *Cache) Path(url string) string {
	return filepath.Join(c.dir, textutil.SanitizeFileName(url))
}

// Get returns the cached body for url. Empty files count as misses.
func (c *Cache) Get(url string) (string, bool) {
	if c == nil || c.dir == "" {
		return "", false
	}
	data, err := os.ReadFile(c.Path(url))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Put stores body as the cached response for url, replacing any previous one.
func (c *Cache) Put(url, body string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create response cache: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.Path(url), []byte(body), 0o644); err != nil {
		return fmt.Errorf("cache response for %s: %w", url, err)
	}
	return nil
}

// Remove drops the cached response for url, if any.
func (c *Cache) Remove(url string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	err := os.Remove(c.Path(url))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cached response: %w", err)
	}
	return nil
}

// Clear removes every cached response and reports how many were dropped.
func (c *Cache) Clear() (int, error) {
	if c == nil || c.dir == "" {
		return 0, nil
	}
	items, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read response cache: %w", err)
	}
	removed := 0
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, item.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove cached response: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Count reports how many responses are cached.
func (c *Cache) Count() (int, error) {
	if c == nil || c.dir == "" {
		return 0, nil
	}
	items, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read response cache: %w", err)
	}
	count := 0
	for _, item := range items {
		if !item.IsDir() {
			count++
		}
	}
	return count, nil
}
