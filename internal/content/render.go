// Package content turns user-authored markdown into HTML that is safe to
// embed in the chat UI. Rendering is delegated to blackfriday; the output
// always passes through a bluemonday policy before leaving this package.
package content

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Renderer renders and sanitizes markdown.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer builds a renderer with the user-generated-content policy.
func NewRenderer() *Renderer {
	return &Renderer{policy: bluemonday.UGCPolicy()}
}

// Render converts markdown to sanitized HTML. Hard line breaks are kept:
// chat messages treat a newline as a line break, not a paragraph join.
func (r *Renderer) Render(markdown string) string {
	unsafe := blackfriday.Run(
		[]byte(markdown),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak),
	)
	return strings.TrimSpace(string(r.policy.SanitizeBytes(unsafe)))
}
