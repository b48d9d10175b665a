package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/valog/pkg/core"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// Default template names.
const (
	DefaultArticleTemplate = "article.html"
	DefaultHomeTemplate    = "home.html"
)

// Engine renders named templates from a directory. Names missing from the
// directory resolve to the built-in templates of the same name.
type Engine struct {
	Dir string

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewEngine creates an engine over dir. An empty dir uses built-ins only.
func NewEngine(dir string) *Engine {
	return &Engine{Dir: dir, cache: make(map[string]*template.Template)}
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

func (e *Engine) lookup(name string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.cache[name]; ok {
		return t, nil
	}

	var src []byte
	var err error
	if e.Dir != "" {
		src, err = os.ReadFile(filepath.Join(e.Dir, name))
	}
	if e.Dir == "" || errors.Is(err, fs.ErrNotExist) {
		src, err = defaultTemplates.ReadFile("templates/" + name)
	}
	if err != nil {
		return nil, fmt.Errorf("template %s not found: %w", name, err)
	}

	t, err := template.New(name).Funcs(funcs).Parse(string(src))
	if err != nil {
		return nil, err
	}
	e.cache[name] = t
	return t, nil
}

// Render executes the named template. Any failure, lookup or execution,
// comes back as a *core.TemplateError.
func (e *Engine) Render(name string, data any) (string, error) {
	t, err := e.lookup(name)
	if err != nil {
		return "", &core.TemplateError{Template: name, Err: err}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", &core.TemplateError{Template: name, Err: err}
	}
	return buf.String(), nil
}
