package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/valog/internal/config"
	"github.com/aretw0/valog/pkg/adapters/github"
	"github.com/aretw0/valog/pkg/core"
	"github.com/aretw0/valog/pkg/render"
)

// options holds the internal configuration for a build.
type options struct {
	logger      *slog.Logger
	clock       func() time.Time
	remote      *github.Client
	sources     []core.ArticleSource
	markdown    render.Markdown
	credentials *config.Credentials
	envFile     string
}

// Option defines a functional option for configuring the builder.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		envFile: ".env",
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces time.Now (used for the days-running counter).
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithRemoteClient injects the client used by the issues source, e.g. one
// pointed at a test server.
func WithRemoteClient(client *github.Client) Option {
	return func(o *options) {
		o.remote = client
	}
}

// WithSources replaces the sources derived from data_source.mode.
func WithSources(sources ...core.ArticleSource) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithMarkdown replaces the Markdown renderer.
func WithMarkdown(md render.Markdown) Option {
	return func(o *options) {
		o.markdown = md
	}
}

// WithCredentials sets the remote credentials instead of reading the environment.
func WithCredentials(creds config.Credentials) Option {
	return func(o *options) {
		o.credentials = &creds
	}
}

// WithEnvFile sets the dotenv file read for credentials. Relative paths
// resolve against the site root; empty disables it.
func WithEnvFile(path string) Option {
	return func(o *options) {
		o.envFile = path
	}
}
