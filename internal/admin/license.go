package admin

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"time"
)

const (
	licenseSuffixLen = 9
	licenseAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// LicenseKeyPattern matches LIC-<unix-millis>-<9 uppercase alphanumerics>.
var LicenseKeyPattern = regexp.MustCompile(`^LIC-\d+-[A-Z0-9]{9}$`)

// newLicenseKey builds a key from the creation time and a random suffix.
// The suffix alone is not collision-proof; callers retry on key collision.
func newLicenseKey(now time.Time, rnd io.Reader) (string, error) {
	suffix := make([]byte, 0, licenseSuffixLen)
	buf := make([]byte, 1)
	// Rejection sampling keeps the alphabet distribution uniform.
	limit := byte(256 - 256%len(licenseAlphabet))
	for len(suffix) < licenseSuffixLen {
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return "", fmt.Errorf("license key entropy: %w", err)
		}
		if buf[0] >= limit {
			continue
		}
		suffix = append(suffix, licenseAlphabet[int(buf[0])%len(licenseAlphabet)])
	}
	return fmt.Sprintf("LIC-%d-%s", now.UnixMilli(), suffix), nil
}

// defaultEntropy is the production randomness source.
var defaultEntropy io.Reader = rand.Reader
