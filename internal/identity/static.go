package identity

import (
	"context"
	"sync"
)

// StaticVerifier resolves tokens from a fixed table. Used by tests.
type StaticVerifier struct {
	mu     sync.RWMutex
	tokens map[string]Identity
}

// NewStaticVerifier creates an empty static verifier.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{tokens: make(map[string]Identity)}
}

// Register maps a token to an identity.
func (v *StaticVerifier) Register(token string, id Identity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = id
}

// Verify looks the token up in the table.
func (v *StaticVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	id, ok := v.tokens[idToken]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
