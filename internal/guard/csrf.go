package guard

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

const csrfTokenBytes = 32

// NewCSRFToken returns a fresh 32-byte random token in hex encoding.
func NewCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("guard: csrf entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CSRFEqual compares a presented token against the stored one in constant
// time.
func CSRFEqual(stored, presented string) bool {
	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// SessionStore holds per-session CSRF tokens.
type SessionStore interface {
	Get(sessionID string) (string, bool)
	Put(sessionID, token string)
}

type sessionEntry struct {
	token     string
	expiresAt time.Time
}

// MemorySessionStore is an in-process session store with TTL eviction.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]sessionEntry
}

// NewMemorySessionStore creates a session store whose entries expire after
// ttl.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *MemorySessionStore) Get(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return "", false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return "", false
	}
	return entry.token, true
}

func (s *MemorySessionStore) Put(sessionID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Opportunistic sweep keeps the map from growing unbounded.
	now := s.now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sessionID] = sessionEntry{token: token, expiresAt: now.Add(s.ttl)}
}
