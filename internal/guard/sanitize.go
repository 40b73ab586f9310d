// Package guard collects the input-hardening helpers applied to free text
// before it is stored or echoed: markup stripping, format validation, an
// injection heuristic, a fixed-window rate limiter and CSRF token helpers.
package guard

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strip = bluemonday.StrictPolicy()

// Sanitize removes all markup, control characters and null bytes from
// free-text input and trims surrounding whitespace. Idempotent:
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 || r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(strip.Sanitize(b.String()))
}
