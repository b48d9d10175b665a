package render

import (
	"html"
	"html/template"
	"strings"
)

// ArticleView is the article record handed to the article template.
type ArticleView struct {
	ID            string
	Title         string
	Date          string
	Tags          []string
	Content       template.HTML // sanitized body
	URL           string
	VerticalTitle string
	Summary       string
}

// ArticlePage is the data of the article template.
type ArticlePage struct {
	Article ArticleView
	Blog    any
}

// FallbackArticle builds a minimal standalone page. It is used when the
// article template cannot be rendered so the article is still published.
func FallbackArticle(v ArticleView) string {
	var b strings.Builder
	title := html.EscapeString(v.Title)

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + title + "</title>\n</head>\n<body>\n")
	b.WriteString("<h1>" + title + "</h1>\n")
	b.WriteString("<p class=\"date\">" + html.EscapeString(v.Date) + "</p>\n")
	if len(v.Tags) > 0 {
		b.WriteString("<p class=\"tags\">")
		for i, t := range v.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("<span>" + html.EscapeString(t) + "</span>")
		}
		b.WriteString("</p>\n")
	}
	b.WriteString("<article>\n" + string(v.Content) + "\n</article>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
