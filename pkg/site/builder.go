// Package site runs one incremental build: it reconciles the article
// sources against the cache and the rendered artifacts, applies the
// resulting plan and rebuilds the home page.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/valog/internal/config"
	"github.com/aretw0/valog/pkg/adapters/fs"
	"github.com/aretw0/valog/pkg/core"
	"github.com/aretw0/valog/pkg/render"
)

// Deps are the collaborators of a Builder.
type Deps struct {
	Sources   []core.ArticleSource
	Cache     core.CacheRepository
	Artifacts *fs.ArtifactStore
	Snapshot  *fs.SnapshotWriter
	Markdown  render.Markdown
	Templates *render.Engine
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Builder runs builds. Runs are sequential; concurrent calls to Build are
// serialized.
type Builder struct {
	cfg       *config.Config
	sources   []core.ArticleSource
	cache     core.CacheRepository
	artifacts *fs.ArtifactStore
	snapshot  *fs.SnapshotWriter
	markdown  render.Markdown
	templates *render.Engine
	logger    *slog.Logger
	clock     func() time.Time

	run  sync.Mutex
	mu   sync.RWMutex
	last *Report
}

// NewBuilder wires a builder. Missing markdown, templates, logger and clock
// get their defaults.
func NewBuilder(cfg *config.Config, deps Deps) *Builder {
	b := &Builder{
		cfg:       cfg,
		sources:   deps.Sources,
		cache:     deps.Cache,
		artifacts: deps.Artifacts,
		snapshot:  deps.Snapshot,
		markdown:  deps.Markdown,
		templates: deps.Templates,
		logger:    deps.Logger,
		clock:     deps.Clock,
	}
	if b.markdown == nil {
		b.markdown = render.NewMarkdown()
	}
	if b.templates == nil {
		b.templates = render.NewEngine("")
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	return b
}

// Report summarizes one build.
type Report struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Active       int       `json:"active"`
	Deleted      []string  `json:"deleted"`
	Regenerated  []string  `json:"regenerated"`
	Fallback     []string  `json:"fallback,omitempty"`
	Failed       []string  `json:"failed,omitempty"`
	Unchanged    int       `json:"unchanged"`
	SourceErrors []string  `json:"source_errors,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// Changed reports whether the build touched any article.
func (r Report) Changed() bool {
	return len(r.Deleted) > 0 || len(r.Regenerated) > 0
}

// snapshot of the sources at reconciliation time.
type activeSet struct {
	articles []core.RawArticle
	byID     map[string]core.RawArticle
	active   []core.ActiveArticle
}

// Build performs one incremental build.
//
// Per-source and per-article failures are logged and skipped. The only
// failures returned are core.ErrNoSource, when no configured source could
// be listed, and an output tree that cannot be created.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	b.run.Lock()
	defer b.run.Unlock()

	report := Report{RunID: uuid.NewString(), StartedAt: b.clock()}
	log := b.logger.With("run_id", report.RunID)
	log.Info("build started", "mode", b.cfg.DataSource.Mode)

	set, err := b.collect(ctx, log, &report)
	if err != nil {
		return report, err
	}
	report.Active = len(set.active)

	if err := b.artifacts.Init(); err != nil {
		return report, fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}

	cache, err := b.cache.Load()
	if err != nil {
		report.Warnings = append(report.Warnings, err.Error())
		if cache == nil {
			log.Error("cache unreadable, rebuilding from scratch", "error", err)
			cache = core.Cache{}
		} else {
			log.Error("cache loaded but not persisted", "error", err)
		}
	}

	existing, err := b.artifacts.List()
	if err != nil {
		log.Warn("artifact listing failed", "error", err)
		existing = map[string]bool{}
	}

	plan := core.Reconcile(core.ReconcileInput{
		Active:    set.active,
		Cache:     cache,
		Artifacts: existing,
	})
	report.Unchanged = len(plan.Unchanged)
	log.Info("reconciled",
		"active", len(set.active),
		"delete", len(plan.Delete),
		"regenerate", len(plan.Regenerate),
		"unchanged", len(plan.Unchanged),
	)

	// Decisions read the pre-run cache; mutations go to next.
	next := cache.Clone()

	for _, id := range plan.Delete {
		withBackup := cache[id].Type == core.SourceIssue
		removed, err := b.artifacts.Delete(id, withBackup)
		if err != nil {
			// The entry stays so the next run retries the removal.
			log.Error("delete failed", "id", id, "files", removed, "error", err)
			report.Failed = append(report.Failed, id)
			continue
		}
		delete(next, id)
		report.Deleted = append(report.Deleted, id)
		log.Info("deleted article", "id", id, "files", removed)
	}

	for _, d := range plan.Regenerate {
		if err := ctx.Err(); err != nil {
			log.Warn("build interrupted, saving progress", "error", err)
			break
		}

		a := set.byID[d.ID]
		fallback, err := b.renderArticle(a, log)
		if err != nil {
			log.Error("article skipped", "id", d.ID, "reason", d.Reason, "error", err)
			report.Failed = append(report.Failed, d.ID)
			continue
		}
		if fallback {
			report.Fallback = append(report.Fallback, d.ID)
		}

		next[d.ID] = core.CacheEntry{Type: d.Type, LastModified: d.Signal}
		report.Regenerated = append(report.Regenerated, d.ID)
		log.Info("regenerated article", "id", d.ID, "reason", d.Reason, "source", d.Type)
	}

	if err := b.cache.Save(next); err != nil {
		log.Error("cache not saved", "error", err)
		report.Warnings = append(report.Warnings, err.Error())
	}

	listing := Assemble(set.articles, b.cfg, b.artifacts.ArticleURL, b.clock())

	if err := b.snapshot.Write(NewSnapshot(b.cfg, listing)); err != nil {
		log.Error("snapshot not written", "error", err)
		report.Warnings = append(report.Warnings, err.Error())
	}

	if err := b.writeHome(listing); err != nil {
		log.Error("home page not generated", "error", err)
		report.Warnings = append(report.Warnings, err.Error())
	}

	report.FinishedAt = b.clock()
	log.Info("build finished",
		"regenerated", len(report.Regenerated),
		"deleted", len(report.Deleted),
		"failed", len(report.Failed),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	b.mu.Lock()
	b.last = &report
	b.mu.Unlock()
	return report, nil
}

// Plan computes what Build would do without writing anything.
func (b *Builder) Plan(ctx context.Context) (core.Plan, error) {
	var report Report
	set, err := b.collect(ctx, b.logger, &report)
	if err != nil {
		return core.Plan{}, err
	}

	cache, err := b.cache.Peek()
	if err != nil {
		cache = core.Cache{}
	}
	existing, err := b.artifacts.List()
	if err != nil {
		existing = map[string]bool{}
	}

	return core.Reconcile(core.ReconcileInput{
		Active:    set.active,
		Cache:     cache,
		Artifacts: existing,
	}), nil
}

// collect lists every source and reads the current signal of each article.
// A failing source counts as empty; if all of them fail (or there are none)
// the build cannot proceed.
func (b *Builder) collect(ctx context.Context, log *slog.Logger, report *Report) (activeSet, error) {
	set := activeSet{byID: make(map[string]core.RawArticle)}
	if len(b.sources) == 0 {
		return set, fmt.Errorf("%w: none configured", core.ErrNoSource)
	}

	var errs []error
	position := make(map[string]int)
	for _, src := range b.sources {
		articles, err := src.ListActive(ctx)
		if err != nil {
			log.Error("source unavailable, treating as empty", "source", src.Type(), "error", err)
			report.SourceErrors = append(report.SourceErrors, err.Error())
			errs = append(errs, err)
			continue
		}

		for _, a := range articles {
			signal, err := src.Signal(ctx, a)
			if err != nil {
				log.Warn("article signal unavailable, skipping", "id", a.ID, "source", src.Type(), "error", err)
				continue
			}

			if a.UpdatedAt != "" && signal != a.UpdatedAt {
				// Changed after it was read; record what was read so the
				// next run picks the edit up.
				log.Debug("article changed since listing", "id", a.ID, "listed", a.UpdatedAt, "now", signal)
				signal = a.UpdatedAt
			}

			if i, dup := position[a.ID]; dup {
				log.Warn("article id shared by two sources, later one wins",
					"id", a.ID, "kept", src.Type(), "dropped", set.active[i].Type)
				set.articles[i] = a
				set.active[i] = core.ActiveArticle{ID: a.ID, Type: src.Type(), Signal: signal}
			} else {
				position[a.ID] = len(set.active)
				set.articles = append(set.articles, a)
				set.active = append(set.active, core.ActiveArticle{ID: a.ID, Type: src.Type(), Signal: signal})
			}
			set.byID[a.ID] = a
		}
	}

	if len(errs) == len(b.sources) {
		return set, fmt.Errorf("%w: %w", core.ErrNoSource, errors.Join(errs...))
	}
	return set, nil
}

// renderArticle writes the page of a (and its raw backup for issues).
// A template failure selects the minimal built-in page; fallback reports that.
func (b *Builder) renderArticle(a core.RawArticle, log *slog.Logger) (fallback bool, err error) {
	meta := core.ExtractMetadata(a.Body)

	body, err := b.markdown.Render(meta.Body)
	if err != nil {
		return false, err
	}

	view := render.ArticleView{
		ID:            a.ID,
		Title:         a.Title,
		Date:          a.Date(),
		Tags:          a.Tags,
		Content:       template.HTML(body),
		URL:           b.artifacts.ArticleURL(a.ID),
		VerticalTitle: core.DisplayTitle(meta, a),
		Summary:       meta.Summary,
	}

	page, err := b.templates.Render(b.cfg.Templates.Article, render.ArticlePage{Article: view, Blog: b.cfg.Blog})
	if err != nil {
		var te *core.TemplateError
		if !errors.As(err, &te) {
			return false, err
		}
		log.Warn("article template failed, using fallback page", "id", a.ID, "template", te.Template, "error", te.Err)
		page = render.FallbackArticle(view)
		fallback = true
	}

	if err := b.artifacts.WriteArticle(a.ID, page); err != nil {
		return fallback, fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}

	if a.Source == core.SourceIssue {
		if err := b.artifacts.WriteBackup(a.ID, a.Body); err != nil {
			log.Error("raw backup not written", "id", a.ID, "error", err)
		}
	}
	return fallback, nil
}

func (b *Builder) writeHome(l Listing) error {
	ctx, err := NewHomeContext(b.cfg, l)
	if err != nil {
		return err
	}
	page, err := b.templates.Render(b.cfg.Templates.Index, ctx)
	if err != nil {
		return err
	}
	if err := b.artifacts.WriteIndex(page); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	return nil
}
