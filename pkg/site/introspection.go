package site

import (
	"github.com/aretw0/introspection"
)

// BuilderState exposes internal state for observability.
type BuilderState struct {
	Mode      string   `json:"mode"`
	Sources   []string `json:"sources"`
	Cache     any      `json:"cache,omitempty"`
	LastBuild *Report  `json:"last_build,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Builder) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sources := make([]string, 0, len(b.sources))
	for _, s := range b.sources {
		sources = append(sources, string(s.Type()))
	}

	state := BuilderState{
		Mode:      string(b.cfg.DataSource.Mode),
		Sources:   sources,
		LastBuild: b.last,
	}
	if c, ok := b.cache.(introspection.Introspectable); ok {
		state.Cache = c.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (b *Builder) ComponentType() string {
	return "builder"
}

var _ introspection.Introspectable = (*Builder)(nil)
var _ introspection.Component = (*Builder)(nil)
