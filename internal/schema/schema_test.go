package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestIDTokenRule(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid jwt-ish", "eyJhbGciOi.eyJzdWIi.SflKxwRJ_adQssw5c", true},
		{"too short", "abc", false},
		{"too long", strings.Repeat("a", 3001), false},
		{"invalid chars", "token with spaces!!", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := IDToken.Validate(tc.input)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected failure for %q", tc.input)
			}
		})
	}
}

func TestBanReasonTrims(t *testing.T) {
	got, err := BanReason.Validate("  excessive spam  ")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != "excessive spam" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if _, err := BanReason.Validate("  ab  "); err == nil {
		t.Fatal("expected failure for post-trim short reason")
	}
}

func TestBanDurationBounds(t *testing.T) {
	if err := BanDuration.Validate(86400); err != nil {
		t.Fatalf("one day in seconds must validate: %v", err)
	}
	if err := BanDuration.Validate(36500 * 86400); err != nil {
		t.Fatalf("upper bound must validate: %v", err)
	}
	if err := BanDuration.Validate(0); err == nil {
		t.Fatal("expected failure for zero")
	}
	if err := BanDuration.Validate(36500*86400 + 1); err == nil {
		t.Fatal("expected failure above upper bound")
	}
}

func TestLicensePlanEnum(t *testing.T) {
	for _, plan := range []string{"Free", "Classic", "Pro"} {
		if err := LicensePlan.Validate(plan); err != nil {
			t.Fatalf("%s must validate: %v", plan, err)
		}
	}
	if err := LicensePlan.Validate("Enterprise"); err == nil {
		t.Fatal("expected failure for unknown plan")
	}
	if err := LicensePlan.Validate("pro"); err == nil {
		t.Fatal("plan matching is case-sensitive")
	}
}

func TestValidateIP(t *testing.T) {
	if _, err := ValidateIP("ip", "192.168.1.10"); err != nil {
		t.Fatalf("ipv4 must validate: %v", err)
	}
	if _, err := ValidateIP("ip", "2001:db8::1"); err != nil {
		t.Fatalf("ipv6 must validate: %v", err)
	}
	for _, bad := range []string{"", "example.com", "999.1.1.1", "192.168.1.0/24"} {
		if _, err := ValidateIP("ip", bad); err == nil {
			t.Fatalf("expected failure for %q", bad)
		}
	}
}

func TestLicenseKeyPattern(t *testing.T) {
	if _, err := LicenseKey.Validate("LIC-1756400000000-A1B2C3D4E"); err != nil {
		t.Fatalf("well-formed key must validate: %v", err)
	}
	for _, bad := range []string{"LIC-abc-A1B2C3D4E", "LIC-1-short", "KEY-1-A1B2C3D4E"} {
		if _, err := LicenseKey.Validate(bad); err == nil {
			t.Fatalf("expected failure for %q", bad)
		}
	}
}

func TestErrorCarriesField(t *testing.T) {
	_, err := UserID.Validate("!")
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *schema.Error, got %T", err)
	}
	if serr.Field != "userId" {
		t.Fatalf("unexpected field: %q", serr.Field)
	}
}
