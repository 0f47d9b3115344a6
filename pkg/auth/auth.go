package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// AuthDecision represents the three possible outcomes of authentication.
type AuthDecision int

const (
	// Yes means credentials are valid. The chain stops and the identity is used.
	Yes AuthDecision = iota
	// No means credentials are present but invalid. The chain stops and the
	// request is rejected.
	No
	// Abstain means this authenticator cannot handle the credentials.
	// The chain continues to the next authenticator.
	Abstain
)

// AuthResult carries the outcome of an authentication attempt.
type AuthResult struct {
	Decision AuthDecision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// Identity represents an authenticated caller.
type Identity struct {
	// Subject is the unique identifier (required, non-empty).
	Subject string
	// Metadata carries authenticator-specific data.
	Metadata map[string]string
}

// Authenticator examines request credentials and returns a three-outcome vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) AuthResult
}

// Sentinel errors.
var (
	ErrUnauthenticated = errors.New("invalid token")
	ErrTooManyRequests = errors.New("rate limit exceeded")
	ErrNotJWT          = errors.New("token is not a JWT")
)

// AuthChain evaluates authenticators in order. It stops on the first Yes or
// No and rejects the request when every authenticator abstains.
type AuthChain struct {
	Authenticators []Authenticator
}

// Authenticate runs the chain.
func (c *AuthChain) Authenticate(ctx context.Context, r *http.Request) AuthResult {
	for _, authn := range c.Authenticators {
		result := authn.Authenticate(ctx, r)
		if result.Decision != Abstain {
			return result
		}
	}
	return AuthResult{Decision: No, Err: ErrUnauthenticated}
}

// BearerHeader renders the Authorization header value for token.
func BearerHeader(token string) string {
	return "Bearer " + token
}

// BearerToken extracts the token from an Authorization header value.
// It reports false when the header is not a Bearer credential.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
