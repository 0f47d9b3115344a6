package transport

import (
	"context"
	"net/http"
)

// Request is one outgoing HTTP exchange. URL is absolute, including the
// query string.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a received HTTP response with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer performs a single HTTP exchange. Implementations must honor ctx
// cancellation and return an error only when no response was received.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DoerFunc is an adapter to allow the use of ordinary functions as Doers.
type DoerFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f(ctx, req).
func (f DoerFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
