// Package github fetches blog articles from the open issues of a GitHub
// repository.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aretw0/valog/pkg/core"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultMaxPages bounds pagination.
	DefaultMaxPages = 10

	// DefaultTimeout applies to every request.
	DefaultTimeout = 30 * time.Second

	perPage = 100
)

// Issue is the subset of the issues API payload the generator reads.
type Issue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Body        *string   `json:"body"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Labels      []Label   `json:"labels"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

type Label struct {
	Name string `json:"name"`
}

// Article converts the issue into the uniform article record.
func (i Issue) Article() core.RawArticle {
	var body string
	if i.Body != nil {
		body = *i.Body
	}
	tags := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		tags = append(tags, l.Name)
	}
	return core.RawArticle{
		ID:        strconv.Itoa(i.Number),
		Title:     i.Title,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
		Body:      body,
		Tags:      tags,
		Source:    core.SourceIssue,
	}
}

// Client talks to the issues endpoint.
type Client struct {
	http     *resty.Client
	maxPages int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (GitHub Enterprise, tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.http.SetBaseURL(url)
		}
	}
}

// WithMaxPages bounds how many pages are followed.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient creates a client with the default endpoint and limits.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/vnd.github.v3+json"),
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOpenIssues returns every open issue of repo ("owner/name"), pull
// requests excluded. Pages are followed until a short page or the page
// limit. Any failure wraps core.ErrSourceUnavailable; nothing is retried.
func (c *Client) ListOpenIssues(ctx context.Context, repo, token string) ([]Issue, error) {
	if repo == "" || token == "" {
		return nil, fmt.Errorf("%w: repository and token are required", core.ErrSourceUnavailable)
	}

	var all []Issue
	for page := 1; page <= c.maxPages; page++ {
		var batch []Issue
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Authorization", "token "+token).
			SetQueryParams(map[string]string{
				"state":    "open",
				"per_page": strconv.Itoa(perPage),
				"page":     strconv.Itoa(page),
			}).
			SetResult(&batch).
			Get(fmt.Sprintf("/repos/%s/issues", repo))
		if err != nil {
			return nil, fmt.Errorf("%w: fetch issues page %d: %v", core.ErrSourceUnavailable, page, err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%w: fetch issues page %d: status %d", core.ErrSourceUnavailable, page, resp.StatusCode())
		}

		for _, issue := range batch {
			if issue.PullRequest != nil {
				continue
			}
			all = append(all, issue)
		}
		if len(batch) < perPage {
			break
		}
	}
	return all, nil
}

// Source implements core.ArticleSource over a repository's open issues.
type Source struct {
	client *Client
	repo   string
	token  string
	logger *slog.Logger
}

// NewSource binds a client to one repository.
func NewSource(client *Client, repo, token string, logger *slog.Logger) *Source {
	if client == nil {
		client = NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{client: client, repo: repo, token: token, logger: logger}
}

// Type implements core.ArticleSource.
func (s *Source) Type() core.SourceType { return core.SourceIssue }

// ListActive implements core.ArticleSource.
func (s *Source) ListActive(ctx context.Context) ([]core.RawArticle, error) {
	issues, err := s.client.ListOpenIssues(ctx, s.repo, s.token)
	if err != nil {
		return nil, err
	}

	articles := make([]core.RawArticle, 0, len(issues))
	for _, i := range issues {
		articles = append(articles, i.Article())
	}
	s.logger.Info("listed issue articles", "repo", s.repo, "count", len(articles))
	return articles, nil
}

// Signal implements core.ArticleSource. The listing is the reconciliation
// snapshot for issues, so updated_at is used as fetched.
func (s *Source) Signal(_ context.Context, a core.RawArticle) (string, error) {
	return a.UpdatedAt, nil
}

var _ core.ArticleSource = (*Source)(nil)
