package github_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/valog/pkg/adapters/github"
	"github.com/aretw0/valog/pkg/core"
)

func issue(n int, labels ...string) map[string]any {
	ls := make([]map[string]string, 0, len(labels))
	for _, l := range labels {
		ls = append(ls, map[string]string{"name": l})
	}
	return map[string]any{
		"number":     n,
		"title":      fmt.Sprintf("Issue %d", n),
		"body":       "body " + strconv.Itoa(n),
		"created_at": "2024-01-02T03:04:05Z",
		"updated_at": "2024-02-03T04:05:06Z",
		"labels":     ls,
	}
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestListOpenIssues(t *testing.T) {
	t.Run("Headers And Filtering", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/owner/blog/issues", r.URL.Path)
			assert.Equal(t, "open", r.URL.Query().Get("state"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "token secret", r.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

			pr := issue(2)
			pr["pull_request"] = map[string]string{"url": "x"}
			writeJSON(w, []any{issue(1, "special"), pr})
		})

		client := github.NewClient(github.WithBaseURL(srv.URL))
		issues, err := client.ListOpenIssues(context.Background(), "owner/blog", "secret")
		require.NoError(t, err)
		require.Len(t, issues, 1)

		a := issues[0].Article()
		assert.Equal(t, "1", a.ID)
		assert.Equal(t, "Issue 1", a.Title)
		assert.Equal(t, "body 1", a.Body)
		assert.Equal(t, []string{"special"}, a.Tags)
		assert.Equal(t, core.SourceIssue, a.Source)
		assert.Equal(t, "2024-01-02", a.Date())
	})

	t.Run("Pagination Stops On Short Page", func(t *testing.T) {
		var calls atomic.Int32
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if page == 1 {
				batch := make([]any, 100)
				for i := range batch {
					batch[i] = issue(i + 1)
				}
				writeJSON(w, batch)
				return
			}
			writeJSON(w, []any{issue(101)})
		})

		client := github.NewClient(github.WithBaseURL(srv.URL))
		issues, err := client.ListOpenIssues(context.Background(), "owner/blog", "secret")
		require.NoError(t, err)
		assert.Len(t, issues, 101)
		assert.EqualValues(t, 2, calls.Load())
	})

	t.Run("Page Limit", func(t *testing.T) {
		var calls atomic.Int32
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			batch := make([]any, 100)
			for i := range batch {
				batch[i] = issue(i + 1)
			}
			writeJSON(w, batch)
		})

		client := github.NewClient(github.WithBaseURL(srv.URL), github.WithMaxPages(2))
		issues, err := client.ListOpenIssues(context.Background(), "owner/blog", "secret")
		require.NoError(t, err)
		assert.Len(t, issues, 200)
		assert.EqualValues(t, 2, calls.Load())
	})

	t.Run("Empty Repository Is Valid", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, []any{})
		})

		issues, err := github.NewClient(github.WithBaseURL(srv.URL)).
			ListOpenIssues(context.Background(), "owner/blog", "secret")
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("HTTP Error", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		})

		_, err := github.NewClient(github.WithBaseURL(srv.URL)).
			ListOpenIssues(context.Background(), "owner/blog", "secret")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrSourceUnavailable))
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		_, err := github.NewClient().ListOpenIssues(context.Background(), "", "secret")
		assert.True(t, errors.Is(err, core.ErrSourceUnavailable))

		_, err = github.NewClient().ListOpenIssues(context.Background(), "owner/blog", "")
		assert.True(t, errors.Is(err, core.ErrSourceUnavailable))
	})
}

func TestSource(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		nullBody := issue(7)
		nullBody["body"] = nil
		writeJSON(w, []any{issue(3), nullBody})
	})

	src := github.NewSource(github.NewClient(github.WithBaseURL(srv.URL)), "owner/blog", "secret", nil)
	assert.Equal(t, core.SourceIssue, src.Type())

	articles, err := src.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "", articles[1].Body)

	signal, err := src.Signal(context.Background(), articles[0])
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03T04:05:06Z", signal)
}
