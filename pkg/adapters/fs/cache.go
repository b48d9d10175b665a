// Package fs keeps everything the generator stores on disk: the build
// cache, the rendered artifacts, the site snapshot and the local posts.
package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/valog/pkg/core"
)

// CacheStore persists the identifier -> CacheEntry mapping as JSON.
type CacheStore struct {
	Path   string // e.g. O-MD/articles.json
	logger *slog.Logger

	mu       sync.RWMutex
	size     int
	migrated int
}

// NewCacheStore initializes a CacheStore backed by the file at path.
func NewCacheStore(path string, logger *slog.Logger) *CacheStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheStore{Path: path, logger: logger}
}

// Load reads the cache from disk. A missing file yields an empty cache.
// A corrupted file is treated as empty so the next run rebuilds it.
//
// Entries stored in the legacy format (a bare timestamp string) are
// upgraded to issue-typed entries, and the upgraded mapping is written back
// before Load returns so the migration runs at most once. If that write
// fails, the migrated cache is still returned along with the error.
func (c *CacheStore) Load() (core.Cache, error) {
	return c.load(true)
}

// Peek reads the cache like Load but never writes to disk, so a legacy file
// stays as it is.
func (c *CacheStore) Peek() (core.Cache, error) {
	return c.load(false)
}

func (c *CacheStore) load(persist bool) (core.Cache, error) {
	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		c.record(0, 0)
		return core.Cache{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read cache: %v", core.ErrPersistence, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("cache file is corrupted, starting fresh", "path", c.Path, "error", err)
		c.record(0, 0)
		return core.Cache{}, nil
	}

	cache := make(core.Cache, len(raw))
	migrated := 0
	for id, value := range raw {
		entry, legacy, err := decodeEntry(value)
		if err != nil {
			c.logger.Warn("dropping unreadable cache entry", "id", id, "error", err)
			continue
		}
		if legacy {
			migrated++
		}
		cache[id] = entry
	}

	if migrated > 0 && persist {
		c.logger.Info("migrated legacy cache entries", "count", migrated)
		if err := c.Save(cache); err != nil {
			return cache, err
		}
	}

	c.record(len(cache), migrated)
	return cache, nil
}

// decodeEntry accepts both the tagged form and the legacy bare string.
func decodeEntry(value json.RawMessage) (core.CacheEntry, bool, error) {
	value = bytes.TrimSpace(value)
	if len(value) > 0 && value[0] == '"' {
		var ts string
		if err := json.Unmarshal(value, &ts); err != nil {
			return core.CacheEntry{}, false, err
		}
		return core.CacheEntry{Type: core.SourceIssue, LastModified: ts}, true, nil
	}

	var entry core.CacheEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return core.CacheEntry{}, false, err
	}
	if !entry.Type.Valid() {
		return core.CacheEntry{}, false, fmt.Errorf("unknown source type %q", entry.Type)
	}
	return entry, false, nil
}

// Save overwrites the backing file with exactly the given mapping.
func (c *CacheStore) Save(cache core.Cache) error {
	// encoding/json sorts map keys, which keeps the output stable across runs.
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode cache: %v", core.ErrPersistence, err)
	}

	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}

	c.mu.Lock()
	c.size = len(cache)
	c.mu.Unlock()
	return nil
}

func (c *CacheStore) record(size, migrated int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.size = size
	c.migrated = migrated
}

var _ core.CacheRepository = (*CacheStore)(nil)
