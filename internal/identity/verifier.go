// Package identity exchanges opaque bearer tokens for verified subject
// identities. Cryptographic verification is delegated to the configured
// provider; callers only see a UID or an error.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken indicates the token failed verification.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrUnavailable indicates no provider is configured. Operations must
	// fail closed on it rather than grant access.
	ErrUnavailable = errors.New("identity: provider unavailable")
)

// Identity is a verified subject.
type Identity struct {
	UID   string
	Email string
}

// Verifier validates a bearer token and returns the subject it belongs to.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}
