package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// StaticToken accepts one fixed bearer token. The token is kept only as a
// SHA-256 hash and compared in constant time.
type StaticToken struct {
	hash     [32]byte
	identity Identity
}

// NewStaticToken creates an authenticator for token, authenticating callers
// as subject.
func NewStaticToken(token, subject string) *StaticToken {
	return &StaticToken{
		hash:     sha256.Sum256([]byte(token)),
		identity: Identity{Subject: subject},
	}
}

// Authenticate returns Yes on a matching token. Any other bearer token
// abstains so that later authenticators can try it.
func (s *StaticToken) Authenticate(_ context.Context, r *http.Request) AuthResult {
	token, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok || token == "" {
		return AuthResult{Decision: Abstain}
	}
	sum := sha256.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(sum[:], s.hash[:]) != 1 {
		return AuthResult{Decision: Abstain}
	}
	id := s.identity
	return AuthResult{Decision: Yes, Identity: &id}
}
