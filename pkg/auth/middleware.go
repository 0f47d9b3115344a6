package auth

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/rhuss/twcai/pkg/debug"
)

// Middleware creates HTTP middleware from an AuthChain and optional
// RateLimiter. Rejections use the agent API's error bodies: 401
// {"error":"invalid token"} and 429 {"error":"rate limit exceeded"} with a
// Retry-After header in whole seconds.
func Middleware(chain *AuthChain, limiter RateLimiter, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			result := chain.Authenticate(r.Context(), r)
			if result.Decision != Yes || result.Identity == nil || result.Identity.Subject == "" {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				writeJSONError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}
			debug.Log("auth", "authentication succeeded", "subject", result.Identity.Subject, "path", r.URL.Path)

			if limiter != nil {
				if err := limiter.Allow(r.Context(), result.Identity); err != nil {
					slog.Warn("rate limit exceeded", "subject", result.Identity.Subject)
					var le *LimitError
					if errors.As(err, &le) {
						secs := int(math.Ceil(le.RetryAfter.Seconds()))
						w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
					}
					writeJSONError(w, http.StatusTooManyRequests, ErrTooManyRequests.Error())
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), result.Identity)))
		})
	}
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/metrics"}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":` + strconv.Quote(message) + `}`))
}
