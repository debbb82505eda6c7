package boxartcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cavv-dev/crocdb-db/internal/fileutil"
	"github.com/cavv-dev/crocdb-db/internal/logging"
)

// Entry records the probe outcome for one game id on one platform. An empty
// URL records a miss: no art host answered for any country.
type Entry struct {
	Platform string    `json:"platform"`
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	CachedAt time.Time `json:"cached_at"`
}

// Miss reports whether the entry records a failed probe.
func (e Entry) Miss() bool {
	return e.URL == ""
}

// Cache provides thread-safe access to the box-art probe cache. Stored
// outcomes stay in memory until Flush.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry // keyed by platform/id
	dirty   bool
}

// NewCache creates a new cache instance. If path is empty, the cache will be
// non-functional (all operations become no-ops). The cache file is created
// on the first Flush that has outcomes to write.
func NewCache(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "boxartcache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logging.WarnWithContext(logger, "failed to load box art cache", "boxartcache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "box art URLs will be probed again"))
	}

	return c
}

func key(platform, id string) string {
	return platform + "/" + id
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the recorded probe outcome for id on platform.
func (c *Cache) Lookup(platform, id string) (Entry, bool) {
	platform = strings.TrimSpace(platform)
	id = strings.TrimSpace(id)
	if platform == "" || id == "" || c.path == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key(platform, id)]
	return entry, found
}

// Store records a probe outcome in memory.
func (c *Cache) Store(entry Entry) error {
	entry.Platform = strings.TrimSpace(entry.Platform)
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.Platform == "" || entry.ID == "" {
		return errors.New("platform and id cannot be empty")
	}
	if c.path == "" {
		return nil
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key(entry.Platform, entry.ID)] = entry
	c.dirty = true

	c.logger.Debug("cached box art probe",
		logging.String("platform", entry.Platform),
		logging.String("id", entry.ID),
		logging.Bool("miss", entry.Miss()))

	return nil
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.dirty = false

	c.logger.Debug("cleared box art cache")
	return nil
}

// Flush writes outcomes stored since the last Flush to disk. It is a no-op
// when nothing changed.
func (c *Cache) Flush() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.dirty = false

	c.logger.Debug("flushed box art cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Platform) == "" || strings.TrimSpace(entry.ID) == "" {
			continue
		}
		c.entries[key(entry.Platform, entry.ID)] = entry
	}

	c.logger.Debug("loaded box art cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache to disk atomically. Callers hold c.mu.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	// Sort for deterministic output
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Platform != entries[j].Platform {
			return entries[i].Platform < entries[j].Platform
		}
		return entries[i].ID < entries[j].ID
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	return fileutil.WriteFileAtomic(c.path, data, 0o644)
}
