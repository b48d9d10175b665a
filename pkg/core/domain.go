// Package core holds the domain of the generator: articles, cache entries,
// metadata extraction and the reconciliation of sources against the cache.
package core

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// SourceType tags where an article came from.
type SourceType string

const (
	SourceIssue     SourceType = "issue"
	SourceLocalFile SourceType = "local_file"
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	return t == SourceIssue || t == SourceLocalFile
}

// RawArticle is the uniform record produced by every ArticleSource.
// It is rebuilt on every run and never persisted as-is.
type RawArticle struct {
	ID        string
	Title     string
	CreatedAt string // native timestamp representation of the source
	UpdatedAt string
	Body      string
	Tags      []string
	Source    SourceType

	// Path is the backing file for local articles. Empty for issues.
	Path string
}

// Date returns the YYYY-MM-DD prefix of the creation timestamp.
func (a RawArticle) Date() string {
	if len(a.CreatedAt) < 10 {
		return a.CreatedAt
	}
	return a.CreatedAt[:10]
}

// HasAnyTag reports whether the article carries at least one tag of the set.
func (a RawArticle) HasAnyTag(set map[string]bool) bool {
	for _, t := range a.Tags {
		if set[t] {
			return true
		}
	}
	return false
}

// CacheEntry records the modification signal an article was last rendered at.
type CacheEntry struct {
	Type         SourceType `json:"type"`
	LastModified string     `json:"lastModified"`
}

// Cache maps article identifiers to their last rendered state.
type Cache map[string]CacheEntry

// Clone returns an independent copy of the cache.
func (c Cache) Clone() Cache {
	out := make(Cache, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ArticleMetadata is derived from the leading lines of an article body.
type ArticleMetadata struct {
	Summary       string
	VerticalTitle string
	Body          string
}

// ListContent is the "content" of a list item: a summary for articles,
// or an ordered list of lines for the synthetic special entry.
type ListContent struct {
	Text  string
	Lines []string
}

// TextContent wraps a plain summary.
func TextContent(s string) ListContent { return ListContent{Text: s} }

// LinesContent wraps an ordered list of lines.
func LinesContent(lines ...string) ListContent { return ListContent{Lines: lines} }

func (c ListContent) value() any {
	if c.Lines != nil {
		return c.Lines
	}
	return c.Text
}

// MarshalJSON emits either a string or an array.
func (c ListContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value())
}

// MarshalYAML emits either a scalar or a sequence.
func (c ListContent) MarshalYAML() (any, error) {
	return c.value(), nil
}

// UnmarshalYAML accepts both shapes.
func (c *ListContent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&c.Lines)
	}
	return node.Decode(&c.Text)
}

// ListItem is one entry of the home page listing.
type ListItem struct {
	ID            string      `json:"id" yaml:"id"`
	Title         string      `json:"title" yaml:"title"`
	Date          string      `json:"date" yaml:"date"`
	Tags          []string    `json:"tags" yaml:"tags"`
	Content       ListContent `json:"content" yaml:"content"`
	URL           string      `json:"url" yaml:"url"`
	VerticalTitle string      `json:"verticalTitle" yaml:"verticalTitle"`
}
