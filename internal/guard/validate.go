package guard

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	titlePattern      = regexp.MustCompile(`^[\p{L}\p{N} _\-.,:;!?()'"#&]+$`)
	subjectIDPattern  = regexp.MustCompile(`^[A-Za-z0-9]{20,40}$`)
	documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-.]{1,255}$`)
)

const (
	maxMessageLen     = 5000
	maxMessageLineLen = 1000
	maxTitleLen       = 255
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailPattern.MatchString(s)
}

// ValidMessageBody enforces the chat message limits: 1..5000 characters
// with no single line longer than 1000.
func ValidMessageBody(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 1 || n > maxMessageLen {
		return false
	}
	for _, line := range strings.Split(s, "\n") {
		if utf8.RuneCountInString(line) > maxMessageLineLen {
			return false
		}
	}
	return true
}

// ValidTitle enforces the conversation title limits and charset.
func ValidTitle(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 1 || n > maxTitleLen {
		return false
	}
	return titlePattern.MatchString(s)
}

// ValidSubjectID reports whether s is a well-formed subject identifier.
func ValidSubjectID(s string) bool {
	return subjectIDPattern.MatchString(s)
}

// ValidDocumentID reports whether s is a well-formed document identifier.
func ValidDocumentID(s string) bool {
	return documentIDPattern.MatchString(s)
}
