package platform

import (
	"log/slog"
	"path/filepath"

	"github.com/aretw0/valog/internal/config"
	"github.com/aretw0/valog/pkg/adapters/fs"
	"github.com/aretw0/valog/pkg/adapters/github"
	"github.com/aretw0/valog/pkg/core"
	"github.com/aretw0/valog/pkg/render"
	"github.com/aretw0/valog/pkg/site"
)

// New wires a site.Builder for cfg.
//
//	b, err := valog.New(cfg, valog.WithLogger(logger))
//	report, err := b.Build(ctx)
func New(cfg *config.Config, opts ...Option) (*site.Builder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sources := o.sources
	if sources == nil {
		var err error
		sources, err = buildSources(cfg, o, logger)
		if err != nil {
			return nil, err
		}
	}

	markdown := o.markdown
	if markdown == nil {
		markdown = render.NewMarkdown()
	}

	return site.NewBuilder(cfg, site.Deps{
		Sources: sources,
		Cache:   fs.NewCacheStore(cfg.Resolve(cfg.Paths.Cache), logger),
		Artifacts: fs.NewArtifactStore(
			cfg.Resolve(cfg.Paths.Articles),
			cfg.Resolve(cfg.Paths.Backups),
			filepath.Join(cfg.Resolve(cfg.Paths.Docs), "index.html"),
		),
		Snapshot:  fs.NewSnapshotWriter(cfg.Resolve(cfg.Paths.Snapshot)),
		Markdown:  markdown,
		Templates: render.NewEngine(cfg.Resolve(cfg.Paths.Templates)),
		Logger:    logger,
		Clock:     o.clock,
	}), nil
}

// buildSources creates the sources data_source.mode enables, issues first.
// Missing credentials do not fail here: the issues source reports itself
// unavailable when listed.
func buildSources(cfg *config.Config, o *options, logger *slog.Logger) ([]core.ArticleSource, error) {
	var sources []core.ArticleSource

	if cfg.DataSource.Mode.UsesIssues() {
		creds, err := credentials(cfg, o)
		if err != nil {
			return nil, err
		}
		if creds.Missing() {
			logger.Warn("REPO or GITHUB_TOKEN not set, issues source will be unavailable")
		}

		client := o.remote
		if client == nil {
			client = github.NewClient(
				github.WithBaseURL(cfg.GitHub.APIURL),
				github.WithMaxPages(cfg.GitHub.MaxPages),
				github.WithTimeout(cfg.GitHub.Timeout),
			)
		}
		sources = append(sources, github.NewSource(client, creds.Repo, creds.Token, logger))
	}

	if cfg.DataSource.Mode.UsesLocal() {
		sources = append(sources, fs.NewPostSource(cfg.Resolve(cfg.Paths.Posts), cfg.Paths.PostsExt, logger))
	}

	return sources, nil
}

func credentials(cfg *config.Config, o *options) (config.Credentials, error) {
	if o.credentials != nil {
		return *o.credentials, nil
	}
	return config.LoadCredentials(cfg.Resolve(o.envFile))
}
