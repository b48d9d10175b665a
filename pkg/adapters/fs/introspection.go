package fs

import (
	"github.com/aretw0/introspection"
)

// CacheState exposes internal state for observability.
type CacheState struct {
	Path     string `json:"path"`
	Entries  int    `json:"entries"`
	Migrated int    `json:"migrated"`
}

// State implements introspection.Introspectable.
func (c *CacheStore) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheState{
		Path:     c.Path,
		Entries:  c.size,
		Migrated: c.migrated,
	}
}

// ComponentType implements introspection.Component.
func (c *CacheStore) ComponentType() string {
	return "cache"
}

var _ introspection.Introspectable = (*CacheStore)(nil)
var _ introspection.Component = (*CacheStore)(nil)
