package transport

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// RequestIDHeader carries the request ID on the wire.
const RequestIDHeader = "X-Request-ID"

// RequestID returns middleware that sets X-Request-ID on each request. An
// ID already on the request or in the context is kept, otherwise a new one
// is generated. The ID is stored in the context for later middleware.
func RequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			if req.Header == nil {
				req.Header = http.Header{}
			}
			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = RequestIDFromContext(ctx)
			}
			if id == "" {
				id = generateRequestID()
			}
			req.Header.Set(RequestIDHeader, id)
			return next.Do(ContextWithRequestID(ctx, id), req)
		})
	}
}

// generateRequestID creates a new unique request ID as a hex string.
func generateRequestID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
