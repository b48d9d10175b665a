package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/valog/pkg/core"
)

// DefaultPostExt is the extension of local article files.
const DefaultPostExt = ".txt"

// PostSource implements core.ArticleSource over a directory of text files.
// The file modification time is the only change signal: it doubles as the
// creation timestamp since there is nothing else to go by.
type PostSource struct {
	Dir    string
	Ext    string
	logger *slog.Logger
	chain  []decoder
}

// NewPostSource creates a source reading <dir>/*<ext>.
func NewPostSource(dir, ext string, logger *slog.Logger) *PostSource {
	if ext == "" {
		ext = DefaultPostExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostSource{Dir: dir, Ext: ext, logger: logger, chain: defaultDecoders}
}

// Type implements core.ArticleSource.
func (s *PostSource) Type() core.SourceType { return core.SourceLocalFile }

// ListActive scans the posts directory. Files that cannot be stat'ed or
// decoded are skipped and logged; only a missing or unreadable directory
// fails the whole source.
func (s *PostSource) ListActive(ctx context.Context) ([]core.RawArticle, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: posts directory: %v", core.ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", core.ErrSourceUnavailable, s.Dir)
	}

	matches, err := doublestar.Glob(os.DirFS(s.Dir), "*"+s.Ext)
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", core.ErrSourceUnavailable, s.Dir, err)
	}
	sort.Strings(matches)

	articles := make([]core.RawArticle, 0, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, err := s.read(name)
		if err != nil {
			s.logger.Warn("skipping local article", "file", name, "error", err)
			continue
		}
		articles = append(articles, a)
	}

	s.logger.Info("listed local articles", "dir", s.Dir, "count", len(articles))
	return articles, nil
}

func (s *PostSource) read(name string) (core.RawArticle, error) {
	path := filepath.Join(s.Dir, name)

	info, err := os.Stat(path)
	if err != nil {
		return core.RawArticle{}, err
	}
	if info.IsDir() {
		return core.RawArticle{}, fmt.Errorf("%s is a directory", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.RawArticle{}, err
	}

	body, enc, err := decodeText(data, s.chain)
	if err != nil {
		return core.RawArticle{}, err
	}
	if enc != "utf-8" {
		s.logger.Debug("decoded with fallback encoding", "file", name, "encoding", enc)
	}

	id := strings.TrimSuffix(name, s.Ext)
	mtime := formatModTime(info.ModTime())
	return core.RawArticle{
		ID:        id,
		Title:     id,
		CreatedAt: mtime,
		UpdatedAt: mtime,
		Body:      body,
		Source:    core.SourceLocalFile,
		Path:      path,
	}, nil
}

// Signal re-reads the modification time: the file may have changed since
// it was listed.
func (s *PostSource) Signal(ctx context.Context, a core.RawArticle) (string, error) {
	path := a.Path
	if path == "" {
		path = filepath.Join(s.Dir, a.ID+s.Ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("local article %s vanished: %w", a.ID, err)
		}
		return "", err
	}
	return formatModTime(info.ModTime()), nil
}

func formatModTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

var _ core.ArticleSource = (*PostSource)(nil)
