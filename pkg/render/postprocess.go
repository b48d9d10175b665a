package render

import (
	"regexp"
	"strings"
)

var (
	codeOpenPattern = regexp.MustCompile(`<pre><code(\s[^>]*)?>`)
	tablePattern    = regexp.MustCompile(`(?s)<table[^>]*>.*?</table>`)
)

// Postprocess applies the fixed rewrites every article body receives:
// code blocks without a language get "language-plaintext", and tables are
// wrapped in a scroll container.
func Postprocess(html string) string {
	html = codeOpenPattern.ReplaceAllStringFunc(html, func(tag string) string {
		if strings.Contains(tag, "class=") {
			return tag
		}
		return strings.Replace(tag, "<code", `<code class="language-plaintext"`, 1)
	})
	return tablePattern.ReplaceAllString(html, `<div class="table-wrapper">$0</div>`)
}
