package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJWTVerifierRoundTrip(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := SignLocalToken("test-secret", "user-42", "a@b.cc", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UID != "user-42" {
		t.Fatalf("unexpected uid: %q", id.UID)
	}
	if id.Email != "a@b.cc" {
		t.Fatalf("unexpected email: %q", id.Email)
	}
}

func TestJWTVerifierRejectsWrongSecret(t *testing.T) {
	v, err := NewJWTVerifier("right-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	token, err := SignLocalToken("wrong-secret", "user-42", "", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTVerifierRejectsExpired(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	v.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	token, err := SignLocalToken("test-secret", "user-42", "", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	if _, err := NewJWTVerifier("  "); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
