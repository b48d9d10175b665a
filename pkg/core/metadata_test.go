package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/valog/pkg/core"
)

func TestExtractMetadata(t *testing.T) {
	t.Run("Short Markers", func(t *testing.T) {
		body := "!vml-s<span>Short summary</span>\n!vml-t<span>My Title</span>\nHello world"

		meta := core.ExtractMetadata(body)

		assert.Equal(t, "Short summary", meta.Summary)
		assert.Equal(t, "My Title", meta.VerticalTitle)
		assert.Equal(t, "Hello world", meta.Body)
		assert.NotContains(t, meta.Body, core.MetadataPrefix)
	})

	t.Run("Keyword Markers In Any Order", func(t *testing.T) {
		body := "!vml-title<span class=\"x\">Vertical</span>\n\n!vml-summary<span>About it</span>\n\n# Heading\ntext"

		meta := core.ExtractMetadata(body)

		assert.Equal(t, "About it", meta.Summary)
		assert.Equal(t, "Vertical", meta.VerticalTitle)
		assert.Equal(t, "# Heading\ntext", meta.Body)
	})

	t.Run("Defaults When Absent", func(t *testing.T) {
		meta := core.ExtractMetadata("just text\n")

		assert.Equal(t, core.DefaultSummary, meta.Summary)
		assert.Empty(t, meta.VerticalTitle)
		assert.Equal(t, "just text", meta.Body)
	})

	t.Run("Empty Body", func(t *testing.T) {
		meta := core.ExtractMetadata("")

		assert.Equal(t, core.DefaultSummary, meta.Summary)
		assert.Empty(t, meta.Body)
	})

	t.Run("Malformed Line Stays In Body", func(t *testing.T) {
		body := "!vml-s no markup here\nbody"

		meta := core.ExtractMetadata(body)

		assert.Equal(t, core.DefaultSummary, meta.Summary)
		assert.Equal(t, body, meta.Body)
	})

	t.Run("Unknown Marker Stays In Body", func(t *testing.T) {
		body := "!vml-x<span>what</span>\nbody"

		meta := core.ExtractMetadata(body)

		assert.Equal(t, core.DefaultSummary, meta.Summary)
		assert.Equal(t, body, meta.Body)
	})

	t.Run("Only First Five Lines Are Scanned", func(t *testing.T) {
		body := "1\n2\n3\n4\n5\n!vml-s<span>late</span>"

		meta := core.ExtractMetadata(body)

		assert.Equal(t, core.DefaultSummary, meta.Summary)
		assert.Contains(t, meta.Body, "!vml-s<span>late</span>")
	})

	t.Run("Empty Summary Keeps Default", func(t *testing.T) {
		meta := core.ExtractMetadata("!vml-s<span> </span>\nbody")

		assert.Equal(t, core.DefaultSummary, meta.Summary)
		assert.Equal(t, "body", meta.Body)
	})
}

func TestDisplayTitle(t *testing.T) {
	a := core.RawArticle{Title: "Issue title"}

	assert.Equal(t, "V", core.DisplayTitle(core.ArticleMetadata{VerticalTitle: "V"}, a))
	assert.Equal(t, "Issue title", core.DisplayTitle(core.ArticleMetadata{}, a))
	assert.Equal(t, "Blog", core.DisplayTitle(core.ArticleMetadata{}, core.RawArticle{}))
}
