package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxResponseBytes bounds how much of a response body is read.
const MaxResponseBytes = 32 << 20

// HTTPDoer performs exchanges with a *http.Client.
type HTTPDoer struct {
	client *http.Client
}

// NewHTTPDoer wraps client. A nil client uses a new http.Client without a
// timeout; deadlines come from the request context.
func NewHTTPDoer(client *http.Client) *HTTPDoer {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPDoer{client: client}
}

// Do sends req and reads the whole response body.
func (d *HTTPDoer) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(data) > MaxResponseBytes {
		return nil, ErrResponseTooLarge
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
