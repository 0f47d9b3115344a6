package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds the claims read from a JWT access token.
type TokenInfo struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token's exp claim lies at or before now.
func (i *TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect reads the registered claims of a JWT without verifying its
// signature. Tokens that are not JWTs fail with ErrNotJWT.
func Inspect(token string) (*TokenInfo, error) {
	var claims jwtlib.RegisteredClaims
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	info := &TokenInfo{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// HMACAuthenticator validates HS256-signed JWT bearer tokens.
type HMACAuthenticator struct {
	key    []byte
	issuer string
}

// NewHMACAuthenticator creates an authenticator for tokens signed with key.
// A non-empty issuer is enforced against the iss claim.
func NewHMACAuthenticator(key []byte, issuer string) *HMACAuthenticator {
	return &HMACAuthenticator{key: key, issuer: issuer}
}

// Authenticate returns Yes for a valid token, No for a JWT that fails
// validation and Abstain for anything that is not a JWT.
func (a *HMACAuthenticator) Authenticate(_ context.Context, r *http.Request) AuthResult {
	tokenStr, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok || tokenStr == "" {
		return AuthResult{Decision: Abstain}
	}
	if _, err := Inspect(tokenStr); err != nil {
		return AuthResult{Decision: Abstain}
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(a.issuer))
	}

	var claims jwtlib.RegisteredClaims
	_, err := jwtlib.ParseWithClaims(tokenStr, &claims, func(*jwtlib.Token) (any, error) {
		return a.key, nil
	}, opts...)
	if err != nil {
		slog.Debug("JWT validation failed", "error", err)
		return AuthResult{Decision: No, Err: fmt.Errorf("%w: %v", ErrUnauthenticated, err)}
	}
	if claims.Subject == "" {
		return AuthResult{Decision: No, Err: fmt.Errorf("%w: missing sub claim", ErrUnauthenticated)}
	}
	return AuthResult{Decision: Yes, Identity: &Identity{Subject: claims.Subject}}
}

// IssueToken signs an HS256 token for subject that expires after ttl.
func IssueToken(key []byte, issuer, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(key)
}
