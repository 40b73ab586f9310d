// Package schema holds the declarative field constraints every request must
// pass before any business logic runs. Each operation's handler names the
// rules it applies; a failed rule carries the field and the reason so the
// boundary can surface a human-readable detail string.
package schema

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

// Error is a structured validation failure.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fail(field, format string, args ...any) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StringRule constrains length and character class of a string field.
type StringRule struct {
	Field       string
	Min, Max    int
	Pattern     *regexp.Regexp
	PatternDesc string
	Trim        bool
}

// Validate checks v against the rule and returns the normalized value.
func (r StringRule) Validate(v string) (string, error) {
	if r.Trim {
		v = strings.TrimSpace(v)
	}
	n := len(v)
	if n < r.Min {
		if n == 0 {
			return "", fail(r.Field, "is required")
		}
		return "", fail(r.Field, "must be at least %d characters", r.Min)
	}
	if r.Max > 0 && n > r.Max {
		return "", fail(r.Field, "must be at most %d characters", r.Max)
	}
	if r.Pattern != nil && !r.Pattern.MatchString(v) {
		desc := r.PatternDesc
		if desc == "" {
			desc = "has invalid format"
		}
		return "", fail(r.Field, "%s", desc)
	}
	return v, nil
}

// IntRule constrains the range of an integer field.
type IntRule struct {
	Field    string
	Min, Max int64
}

// Validate checks v against the rule.
func (r IntRule) Validate(v int64) error {
	if v < r.Min || v > r.Max {
		return fail(r.Field, "must be between %d and %d", r.Min, r.Max)
	}
	return nil
}

// EnumRule constrains a field to a fixed value set.
type EnumRule struct {
	Field   string
	Allowed []string
}

// Validate checks v against the allowed set.
func (r EnumRule) Validate(v string) error {
	for _, a := range r.Allowed {
		if v == a {
			return nil
		}
	}
	return fail(r.Field, "must be one of %s", strings.Join(r.Allowed, ", "))
}

// ValidateIP requires v to parse as an IPv4 or IPv6 literal.
func ValidateIP(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	addr, err := netip.ParseAddr(v)
	if err != nil {
		return "", fail(field, "must be a valid IPv4 or IPv6 address")
	}
	return addr.String(), nil
}

// Canned rules shared across the admin operations.
var (
	IDToken = StringRule{
		Field:       "idToken",
		Min:         10,
		Max:         3000,
		Pattern:     regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`),
		PatternDesc: "contains invalid characters",
	}

	UserID = StringRule{
		Field:       "userId",
		Min:         20,
		Max:         40,
		Pattern:     regexp.MustCompile(`^[A-Za-z0-9]+$`),
		PatternDesc: "must be alphanumeric",
		Trim:        true,
	}

	BanReason = StringRule{
		Field: "reason",
		Min:   5,
		Max:   500,
		Trim:  true,
	}

	// Duration is consumed as seconds by the expiry computation but bounded
	// by the day-scale magnitude the original product shipped with. Kept
	// as-is pending a product decision on the unit.
	BanDuration = IntRule{
		Field: "duration",
		Min:   1,
		Max:   36500 * 86400,
	}

	LicensePlan = EnumRule{
		Field:   "plan",
		Allowed: []string{"Free", "Classic", "Pro"},
	}

	ValidityDays = IntRule{
		Field: "validityDays",
		Min:   1,
		Max:   3650,
	}

	LicenseKey = StringRule{
		Field:       "licenseKey",
		Min:         10,
		Max:         64,
		Pattern:     regexp.MustCompile(`^LIC-\d+-[A-Z0-9]{9}$`),
		PatternDesc: "has invalid license key format",
		Trim:        true,
	}

	Markdown = StringRule{
		Field: "markdown",
		Min:   1,
		Max:   20000,
	}
)
