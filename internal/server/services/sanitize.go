package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied post text before it is stored.
type Sanitizer struct {
	title   *bluemonday.Policy
	content *bluemonday.Policy
}

// NewSanitizer strips all markup from titles and keeps a small set of
// formatting tags in post content.
func NewSanitizer() *Sanitizer {
	content := bluemonday.NewPolicy()
	content.AllowElements("p", "br", "ul", "ol", "li", "blockquote", "pre", "code", "strong", "em")
	content.AllowAttrs("href").OnElements("a")
	content.AllowURLSchemes("https")
	content.RequireNoReferrerOnLinks(true)

	return &Sanitizer{title: bluemonday.StrictPolicy(), content: content}
}

// Title returns s without any markup. Titles are plain text, so entities
// escaped by the policy are decoded again.
func (s *Sanitizer) Title(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.title.Sanitize(v)))
}

func (s *Sanitizer) Content(v string) string {
	return strings.TrimSpace(s.content.Sanitize(v))
}
