// Package config loads the blog configuration (config.yml) and the
// credentials of the remote source.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Mode selects which article sources are active.
type Mode string

const (
	ModeIssuesOnly Mode = "issues_only"
	ModeLocalOnly  Mode = "local_only"
	ModeDual       Mode = "dual"
)

// UsesIssues reports whether the remote source is active in this mode.
func (m Mode) UsesIssues() bool { return m == ModeIssuesOnly || m == ModeDual }

// UsesLocal reports whether the local-file source is active in this mode.
func (m Mode) UsesLocal() bool { return m == ModeLocalOnly || m == ModeDual }

// Blog is the identity of the site. Unknown keys are kept in Extra and
// written back to the snapshot untouched.
type Blog struct {
	Name        string         `yaml:"name" json:"name"`
	SName       string         `yaml:"sname" json:"sname"`
	Description string         `yaml:"description" json:"description"`
	Avatar      string         `yaml:"avatar" json:"avatar"`
	Favicon     string         `yaml:"favicon" json:"favicon"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

type Theme struct {
	Mode         string `yaml:"mode"`
	PrimaryColor string `yaml:"primary_color"`
}

// SpecialView feeds the synthetic special card shown when no article
// qualifies as special. Key names follow the historical config file.
type SpecialView struct {
	RFInformation string `yaml:"RF_Information"`
	Copyright     string `yaml:"Copyright"`
	TotalTime     string `yaml:"Total_time"`
	Others        string `yaml:"Others"`
}

type Special struct {
	// TopIsSpecial makes the "top" tag count as special. Defaults to true.
	TopIsSpecial *bool        `yaml:"top_is_special,omitempty"`
	View         *SpecialView `yaml:"view,omitempty"`
}

type Templates struct {
	Article string `yaml:"VaLog-default-article"`
	Index   string `yaml:"VaLog-default-index"`
}

type DataSource struct {
	Mode Mode `yaml:"mode"`
}

type GitHub struct {
	APIURL   string        `yaml:"api_url"`
	MaxPages int           `yaml:"max_pages"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Paths are resolved against the site root when relative.
type Paths struct {
	Templates string `yaml:"templates"`
	Docs      string `yaml:"docs"`
	Articles  string `yaml:"articles"`
	Backups   string `yaml:"backups"`
	Cache     string `yaml:"cache"`
	Snapshot  string `yaml:"snapshot"`
	Posts     string `yaml:"posts"`
	PostsExt  string `yaml:"posts_ext"`
}

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Blog         Blog             `yaml:"blog"`
	Theme        Theme            `yaml:"theme"`
	SpecialTags  []string         `yaml:"special_tags"`
	Special      Special          `yaml:"special"`
	FloatingMenu []map[string]any `yaml:"floating_menu"`
	Templates    Templates        `yaml:"templates"`
	DataSource   DataSource       `yaml:"data_source"`
	GitHub       GitHub           `yaml:"github"`
	Paths        Paths            `yaml:"paths"`

	// Root is the directory relative paths resolve against.
	Root string `yaml:"-"`
}

// Credentials of the remote source, read from the environment.
type Credentials struct {
	Repo  string
	Token string
}

// Missing reports whether any credential is absent.
func (c Credentials) Missing() bool {
	return c.Repo == "" || c.Token == ""
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Blog:  Blog{Name: "VaLog", SName: "Special"},
		Theme: Theme{Mode: "dark", PrimaryColor: "#e74c3c"},
		Templates: Templates{
			Article: "article.html",
			Index:   "home.html",
		},
		DataSource: DataSource{Mode: ModeIssuesOnly},
		GitHub: GitHub{
			APIURL:   "https://api.github.com",
			MaxPages: 10,
			Timeout:  30 * time.Second,
		},
		Paths: Paths{
			Templates: "template",
			Docs:      "docs",
			Articles:  "docs/article",
			Backups:   "O-MD",
			Cache:     "O-MD/articles.json",
			Snapshot:  "base.yaml",
			Posts:     "posts",
			PostsExt:  ".txt",
		},
		Root: ".",
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file
// is not an error. root anchors relative output paths; empty means the
// directory holding the config file.
func Load(path, root string) (*Config, error) {
	cfg := Default()

	if root == "" {
		root = filepath.Dir(path)
	}
	cfg.Root = root

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults refills fields an explicit empty value in the file cleared.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Templates.Article == "" {
		c.Templates.Article = d.Templates.Article
	}
	if c.Templates.Index == "" {
		c.Templates.Index = d.Templates.Index
	}
	if c.DataSource.Mode == "" {
		c.DataSource.Mode = d.DataSource.Mode
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = d.GitHub.APIURL
	}
	if c.GitHub.MaxPages <= 0 {
		c.GitHub.MaxPages = d.GitHub.MaxPages
	}
	if c.GitHub.Timeout <= 0 {
		c.GitHub.Timeout = d.GitHub.Timeout
	}
	if c.Paths.PostsExt == "" {
		c.Paths.PostsExt = d.Paths.PostsExt
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.DataSource.Mode {
	case ModeIssuesOnly, ModeLocalOnly, ModeDual:
	default:
		return fmt.Errorf("data_source.mode %q: must be one of %s, %s, %s",
			c.DataSource.Mode, ModeIssuesOnly, ModeLocalOnly, ModeDual)
	}
	return nil
}

// TopIsSpecial reports whether the "top" tag marks an article as special.
func (c *Config) TopIsSpecial() bool {
	if c.Special.TopIsSpecial == nil {
		return true
	}
	return *c.Special.TopIsSpecial
}

// TotalTime returns the configured start date of the blog.
func (c *Config) TotalTime() string {
	if c.Special.View != nil && c.Special.View.TotalTime != "" {
		return c.Special.View.TotalTime
	}
	return "2023.01.01"
}

// Resolve anchors a configured path to the site root.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// LoadCredentials reads REPO and GITHUB_TOKEN from the environment after
// loading envFile (if it exists) without overriding variables already set.
func LoadCredentials(envFile string) (Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Credentials{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return Credentials{
		Repo:  os.Getenv("REPO"),
		Token: os.Getenv("GITHUB_TOKEN"),
	}, nil
}
