// Package htmlsanitize cleans user-supplied HTML before it is stored or
// returned to clients.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// newRichPolicy is UGC plus the table and inline formatting that notices
// are commonly pasted with.
func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	tableEls := []string{"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption"}
	p.AllowAttrs("class", "style").OnElements(tableEls...)
	p.AllowStyles("text-align", "vertical-align", "width").OnElements(tableEls...)
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	p.AllowElements("u", "s", "sub", "sup", "mark", "hr", "br")
	return p
}

// Sanitize returns s with anything outside the rich-text allowlist removed.
// Used for discussion messages and notice bodies.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// Text strips every tag and returns the remaining text, trimmed.
// Entities produced by the policy are decoded so stored text stays readable.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}
