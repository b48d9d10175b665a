package core

import "context"

// ArticleSource defines the contract every article provider implements.
// Adhering to this interface lets the reconciliation stay independent of
// where articles live (GitHub issues, a directory of text files, ...).
type ArticleSource interface {
	// Type returns the source type stamped on every article it produces.
	Type() SourceType

	// ListActive returns all articles that currently exist in the source.
	ListActive(ctx context.Context) ([]RawArticle, error)

	// Signal returns the current modification signal for an article.
	// Sources whose content can change between listing and reconciliation
	// (local files) re-read it here.
	Signal(ctx context.Context, a RawArticle) (string, error)
}

// CacheRepository persists the cache between runs.
type CacheRepository interface {
	// Load reads the cache for a build. It may return a usable cache
	// together with an error when only a follow-up write failed.
	Load() (Cache, error)

	// Peek reads the cache without ever writing to disk.
	Peek() (Cache, error)

	// Save replaces the stored cache with exactly the given mapping.
	Save(Cache) error
}
