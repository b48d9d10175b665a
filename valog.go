package valog

import (
	"context"
	_ "embed"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/valog/internal/config"
	"github.com/aretw0/valog/internal/platform"
	"github.com/aretw0/valog/pkg/adapters/github"
	"github.com/aretw0/valog/pkg/core"
	"github.com/aretw0/valog/pkg/render"
	"github.com/aretw0/valog/pkg/site"
)

//go:embed VERSION
var version string

// Version is the release of the generator.
var Version = strings.TrimSpace(version)

// --- Types ---

// Config is the site configuration.
type Config = config.Config

// Builder runs incremental builds.
type Builder = site.Builder

// Report summarizes one build.
type Report = site.Report

// --- Configuration ---

// Option defines a functional option for configuring the builder.
type Option = platform.Option

// LoadConfig reads config.yml at path. root anchors relative output paths;
// empty means the directory of path.
func LoadConfig(path, root string) (*Config, error) {
	return config.Load(path, root)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithRemoteClient injects the GitHub client.
func WithRemoteClient(client *github.Client) Option {
	return platform.WithRemoteClient(client)
}

// WithSources replaces the sources derived from the configured mode.
func WithSources(sources ...core.ArticleSource) Option {
	return platform.WithSources(sources...)
}

// WithMarkdown replaces the Markdown renderer.
func WithMarkdown(md render.Markdown) Option {
	return platform.WithMarkdown(md)
}

// WithCredentials sets REPO and GITHUB_TOKEN explicitly.
func WithCredentials(repo, token string) Option {
	return platform.WithCredentials(config.Credentials{Repo: repo, Token: token})
}

// WithEnvFile sets the dotenv file read for credentials.
func WithEnvFile(path string) Option {
	return platform.WithEnvFile(path)
}

// --- Factory ---

// New wires a builder for cfg.
func New(cfg *Config, opts ...Option) (*Builder, error) {
	return platform.New(cfg, opts...)
}

// Build wires a builder for cfg and runs one build.
func Build(ctx context.Context, cfg *Config, opts ...Option) (Report, error) {
	b, err := New(cfg, opts...)
	if err != nil {
		return Report{}, err
	}
	return b.Build(ctx)
}

// Plan reports what a build of cfg would do, without writing anything.
func Plan(ctx context.Context, cfg *Config, opts ...Option) (core.Plan, error) {
	b, err := New(cfg, opts...)
	if err != nil {
		return core.Plan{}, err
	}
	return b.Plan(ctx)
}

// FindSiteRoot looks upwards for a directory holding config.yml or .git.
func FindSiteRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
