// Package render turns article bodies into HTML and HTML into pages.
package render

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts an article body to sanitized HTML.
type Markdown interface {
	Render(text string) (string, error)
}

// GoldmarkRenderer renders GitHub-flavored Markdown and sanitizes the result.
type GoldmarkRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdown creates the default renderer: GFM tables, strikethrough,
// autolinks and task lists, footnotes, definition lists and hard line breaks.
func NewMarkdown() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // raw HTML is filtered by the policy below
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	policy.AllowAttrs("class").OnElements("span", "div", "sup", "section")

	return &GoldmarkRenderer{md: md, policy: policy}
}

// Render implements Markdown. The output is post-processed after
// sanitization since the wrappers it adds are trusted markup.
func (r *GoldmarkRenderer) Render(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	clean := r.policy.SanitizeBytes(buf.Bytes())
	return Postprocess(string(clean)), nil
}

var _ Markdown = (*GoldmarkRenderer)(nil)
