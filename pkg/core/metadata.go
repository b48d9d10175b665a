package core

import (
	"regexp"
	"strings"
)

const (
	// MetadataPrefix marks a metadata line at the top of an article body.
	MetadataPrefix = "!vml-"

	// DefaultSummary is used when an article declares no summary.
	DefaultSummary = "暂无简介"

	metadataScanLines = 5
)

var spanPattern = regexp.MustCompile(`<span[^>]*>(.*?)</span>`)

type metadataKind int

const (
	kindNone metadataKind = iota
	kindSummary
	kindTitle
)

// classifyMarker maps the text between the prefix and the markup to a kind.
// "s"/"t" are the short forms; longer markers match by keyword.
func classifyMarker(marker string) metadataKind {
	switch {
	case marker == "s" || strings.Contains(marker, "summary"):
		return kindSummary
	case marker == "t" || strings.Contains(marker, "title"):
		return kindTitle
	}
	return kindNone
}

// ExtractMetadata pulls the summary and vertical title out of the first
// lines of body and returns the remaining text as the clean body.
//
// Only lines that parse fully (prefix, known marker, span pair) are removed;
// anything else stays in the body untouched.
func ExtractMetadata(body string) ArticleMetadata {
	meta := ArticleMetadata{Summary: DefaultSummary}
	if body == "" {
		return meta
	}

	lines := strings.Split(body, "\n")
	drop := make(map[int]bool)

	for i := 0; i < len(lines) && i < metadataScanLines; i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, MetadataPrefix) {
			continue
		}

		rest := line[len(MetadataPrefix):]
		cut := strings.Index(rest, "<")
		if cut < 0 {
			continue
		}
		m := spanPattern.FindStringSubmatch(rest[cut:])
		if m == nil {
			continue
		}

		value := strings.TrimSpace(m[1])
		switch classifyMarker(rest[:cut]) {
		case kindSummary:
			if value != "" {
				meta.Summary = value
			}
		case kindTitle:
			meta.VerticalTitle = value
		default:
			continue
		}
		drop[i] = true
	}

	if len(drop) == 0 {
		meta.Body = strings.TrimSpace(body)
		return meta
	}

	kept := make([]string, 0, len(lines)-len(drop))
	for i, l := range lines {
		if !drop[i] {
			kept = append(kept, l)
		}
	}
	meta.Body = strings.TrimSpace(strings.Join(kept, "\n"))
	return meta
}

// DisplayTitle picks the vertical title, then the article title, then a placeholder.
func DisplayTitle(meta ArticleMetadata, a RawArticle) string {
	if meta.VerticalTitle != "" {
		return meta.VerticalTitle
	}
	if a.Title != "" {
		return a.Title
	}
	return "Blog"
}
