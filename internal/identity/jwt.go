package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const localIssuer = "parlor-local"

// JWTVerifier validates HS256 tokens signed with a shared secret. It stands
// in for the hosted identity provider in development and CI deployments.
type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewJWTVerifier builds a verifier for the given shared secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("identity: auth secret is required: %w", ErrUnavailable)
	}
	return &JWTVerifier{secret: []byte(secret), now: time.Now}, nil
}

// SignLocalToken issues a token the verifier will accept. Test and smoke
// tooling use it; production traffic carries provider-issued tokens.
func SignLocalToken(secret, uid, email string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" || strings.TrimSpace(uid) == "" {
		return "", errors.New("identity: secret and uid are required")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": localIssuer,
		"sub": uid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify parses and validates the token, returning its subject.
func (v *JWTVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if v == nil || len(v.secret) == 0 {
		return Identity{}, ErrUnavailable
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(localIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if _, err := parser.ParseWithClaims(idToken, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	id := Identity{UID: sub}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}
