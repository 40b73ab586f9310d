package guard

import (
	"regexp"
	"strings"
)

// Coarse pre-storage heuristics. These block obviously hostile input early;
// they are not a substitute for parameterized store queries.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunion\b[\s(]+\bselect\b`),
	regexp.MustCompile(`(?i)\bselect\b[\s\S]+\bfrom\b`),
	regexp.MustCompile(`(?i)\binsert\b\s+\binto\b`),
	regexp.MustCompile(`(?i)\bdelete\b\s+\bfrom\b`),
	regexp.MustCompile(`(?i)\bdrop\b\s+\b(table|database|collection)\b`),
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`\.\.[/\\]`),
}

const injectionMetaChars = "{}$[]`|;"

// LooksInjected flags input matching SQL-keyword patterns, template or
// shell metacharacters, script tags, the javascript: scheme, or
// path-traversal sequences.
func LooksInjected(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, injectionMetaChars) {
		return true
	}
	for _, p := range injectionPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
