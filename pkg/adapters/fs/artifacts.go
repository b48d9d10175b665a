package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	artifactExt = ".html"
	backupExt   = ".md"
)

// ArtifactStore owns the generated files: one HTML page per article, the
// raw Markdown backups of issue articles and the home page.
type ArtifactStore struct {
	ArticleDir string // docs/article
	BackupDir  string // O-MD
	IndexPath  string // docs/index.html
}

// NewArtifactStore creates a store over the given locations.
func NewArtifactStore(articleDir, backupDir, indexPath string) *ArtifactStore {
	return &ArtifactStore{ArticleDir: articleDir, BackupDir: backupDir, IndexPath: indexPath}
}

// Init creates the output directories.
func (s *ArtifactStore) Init() error {
	for _, dir := range []string{s.ArticleDir, s.BackupDir, filepath.Dir(s.IndexPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

// ArticlePath returns the artifact location of an article.
func (s *ArtifactStore) ArticlePath(id string) string {
	return filepath.Join(s.ArticleDir, id+artifactExt)
}

// BackupPath returns the raw-source backup location of an article.
func (s *ArtifactStore) BackupPath(id string) string {
	return filepath.Join(s.BackupDir, id+backupExt)
}

// ArticleURL is the link to an article relative to the home page.
func (s *ArtifactStore) ArticleURL(id string) string {
	return "article/" + id + artifactExt
}

// List returns the identifiers that currently have a rendered artifact.
func (s *ArtifactStore) List() (map[string]bool, error) {
	ids := make(map[string]bool)

	matches, err := doublestar.Glob(os.DirFS(s.ArticleDir), "*"+artifactExt)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ids, nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	for _, name := range matches {
		ids[strings.TrimSuffix(name, artifactExt)] = true
	}
	return ids, nil
}

// WriteArticle atomically replaces the artifact of id.
func (s *ArtifactStore) WriteArticle(id, html string) error {
	return writeFileAtomic(s.ArticlePath(id), []byte(html), 0644)
}

// WriteBackup stores the untouched body of an issue article.
func (s *ArtifactStore) WriteBackup(id, body string) error {
	return writeFileAtomic(s.BackupPath(id), []byte(body), 0644)
}

// WriteIndex replaces the home page.
func (s *ArtifactStore) WriteIndex(html string) error {
	return writeFileAtomic(s.IndexPath, []byte(html), 0644)
}

// Delete removes the artifact of id and, when withBackup is set, its raw
// backup. Missing files are not an error.
func (s *ArtifactStore) Delete(id string, withBackup bool) ([]string, error) {
	paths := []string{s.ArticlePath(id)}
	if withBackup {
		paths = append(paths, s.BackupPath(id))
	}

	var removed []string
	var errs []error
	for _, p := range paths {
		ok, err := removeIfExists(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			removed = append(removed, p)
		}
	}
	return removed, errors.Join(errs...)
}
