package ingest

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from article text. Content may carry
// Markdown or HTML fragments; plain-text fields keep no markup at all.
type Sanitizer struct {
	content *bluemonday.Policy
	text    *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{
		content: p,
		text:    bluemonday.StrictPolicy(),
	}
}

// Content leaves markup-free text untouched so Markdown survives.
func (s *Sanitizer) Content(in string) string {
	if !strings.Contains(in, "<") {
		return in
	}
	return strings.TrimSpace(s.content.Sanitize(in))
}

func (s *Sanitizer) Text(in string) string {
	if !strings.Contains(in, "<") {
		return in
	}
	return strings.TrimSpace(html.UnescapeString(s.text.Sanitize(in)))
}
