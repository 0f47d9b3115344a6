package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rhuss/twcai/pkg/api"
	"github.com/rhuss/twcai/pkg/transport"
)

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   api.ErrorKind
	}{
		{200, ""},
		{201, ""},
		{204, ""},
		{304, api.ErrorKindAPI},
		{400, api.ErrorKindInvalidRequest},
		{401, api.ErrorKindUnauthorized},
		{403, api.ErrorKindForbidden},
		{404, api.ErrorKindNotFound},
		{409, api.ErrorKindInvalidRequest},
		{422, api.ErrorKindInvalidRequest},
		{429, api.ErrorKindRateLimited},
		{500, api.ErrorKindServerError},
		{502, api.ErrorKindServerError},
		{503, api.ErrorKindServerError},
		{599, api.ErrorKindServerError},
		{600, api.ErrorKindAPI},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			d := &fakeDoer{status: tt.status, body: `{"id":"resp_1","status":"completed"}`}
			c := newTestClient(t, d)

			_, err := c.GetResponse(context.Background(), "ag-1", "resp_1", nil)
			if got := api.KindOf(err); got != tt.want {
				t.Fatalf("kind = %q, want %q (err = %v)", got, tt.want, err)
			}
			if tt.want == "" {
				return
			}
			var apiErr *api.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not *api.Error", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message == "" {
				t.Error("error carries no message")
			}
		})
	}
}

func TestUnauthorizedCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Token: "wrong", Logger: discardLogger()})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.CallAgent(context.Background(), "ag-1", "hello")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	var apiErr *api.Error
	errors.As(err, &apiErr)
	if apiErr.StatusCode != 401 || apiErr.Message != "invalid token" {
		t.Errorf("error = %+v", apiErr)
	}
	if apiErr.Body != `{"error":"invalid token"}` {
		t.Errorf("body = %q", apiErr.Body)
	}
}

func TestInvalidRequestFallsBackToBodyExcerpt(t *testing.T) {
	d := &fakeDoer{status: 400, body: "  upstream said no  "}
	c := newTestClient(t, d)

	_, err := c.ListModels(context.Background(), "ag-1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindInvalidRequest {
		t.Fatalf("error = %v", err)
	}
	if apiErr.Message != "upstream said no" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestErrorBodyTruncated(t *testing.T) {
	d := &fakeDoer{status: 500, body: strings.Repeat("x", api.MaxBodySnippet*2)}
	c := newTestClient(t, d)

	_, err := c.ListModels(context.Background(), "ag-1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v", err)
	}
	if len(apiErr.Body) != api.MaxBodySnippet {
		t.Errorf("body length = %d, want %d", len(apiErr.Body), api.MaxBodySnippet)
	}
	if apiErr.Message != "Internal Server Error" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestRateLimitedRetryAfter(t *testing.T) {
	d := &fakeDoer{
		status: 429,
		header: http.Header{"Retry-After": {"7"}},
		body:   `{"error":{"message":"slow down","type":"rate_limit"}}`,
	}
	c := newTestClient(t, d)

	_, err := c.CallAgent(context.Background(), "ag-1", "hello")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindRateLimited {
		t.Fatalf("error = %v", err)
	}
	if apiErr.RetryAfter != 7*time.Second {
		t.Errorf("retry after = %v, want 7s", apiErr.RetryAfter)
	}
	if apiErr.Message != "slow down" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if !apiErr.IsRetryable() {
		t.Error("rate limited error should be retryable")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"0", 0},
		{"12", 12 * time.Second},
		{"-3", 0},
		{"soon", 0},
		{"Sun, 01 Mar 2026 12:00:30 GMT", 30 * time.Second},
		{"Sun, 01 Mar 2026 11:00:00 GMT", 0},
	}

	for _, tt := range tests {
		if got := parseRetryAfter(tt.in, now); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string error", `{"error":"invalid token"}`, "invalid token"},
		{"object error", `{"error":{"message":"bad model","code":"x"}}`, "bad model"},
		{"message field", `{"message":"agent not found"}`, "agent not found"},
		{"detail field", `{"detail":"validation failed"}`, "validation failed"},
		{"error wins over message", `{"error":"first","message":"second"}`, "first"},
		{"non-string detail", `{"detail":[{"loc":["body"]}]}`, ""},
		{"not json", `<html>oops</html>`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	d := &fakeDoer{body: `{"object":"conversation","created_at":1}`}
	c := newTestClient(t, d)

	_, err := c.GetConversation(context.Background(), "ag-1", "conv_1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindDecode {
		t.Fatalf("error = %v, want decode", err)
	}
	if apiErr.StatusCode != 200 {
		t.Errorf("status = %d, want 200", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Message, `"id"`) {
		t.Errorf("message = %q, want it to name the field", apiErr.Message)
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	d := &fakeDoer{body: `<html>gateway</html>`}
	c := newTestClient(t, d)

	_, err := c.ListModels(context.Background(), "ag-1")
	if api.KindOf(err) != api.ErrorKindDecode {
		t.Fatalf("error = %v, want decode", err)
	}
	if !errors.Is(err, api.ErrDecode) {
		t.Error("errors.Is(err, ErrDecode) = false")
	}
}

func TestDecodeUnknownContentType(t *testing.T) {
	d := &fakeDoer{body: `{"choices":[{"index":0,"message":{"role":"assistant","content":[{"type":"video","video":{}}]}}]}`}
	c := newTestClient(t, d)

	_, err := c.CallAgent(context.Background(), "ag-1", "hello")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindDecode {
		t.Fatalf("error = %v, want decode", err)
	}
	if !strings.Contains(apiErr.Message, "video") {
		t.Errorf("message = %q, want it to name the discriminator", apiErr.Message)
	}
}

func TestEncodeFailureBeforeNetwork(t *testing.T) {
	d := &fakeDoer{}
	c := newTestClient(t, d)

	req := &api.ChatCompletionRequest{
		Messages: []api.ChatMessage{
			api.UserMultimodalMessage(api.ContentItem{Type: api.ContentTypeImageURL}),
		},
	}
	_, err := c.ChatCompletions(context.Background(), "ag-1", req)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindInvalidRequest {
		t.Fatalf("error = %v, want invalid_request", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0", apiErr.StatusCode)
	}
	if len(d.reqs) != 0 {
		t.Error("request was sent despite encode failure")
	}
}

func TestNilRequestRejected(t *testing.T) {
	d := &fakeDoer{}
	c := newTestClient(t, d)

	_, err := c.ChatCompletions(context.Background(), "ag-1", nil)
	if api.KindOf(err) != api.ErrorKindInvalidRequest {
		t.Errorf("error = %v, want invalid_request", err)
	}
	if len(d.reqs) != 0 {
		t.Error("request was sent")
	}
}

func TestTransportFailure(t *testing.T) {
	d := &fakeDoer{err: errors.New("dial tcp 10.0.0.1:443: connect: connection refused")}
	c := newTestClient(t, d)

	_, err := c.ListModels(context.Background(), "ag-1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindTransport {
		t.Fatalf("error = %v, want transport", err)
	}
	if apiErr.Timeout || apiErr.StatusCode != 0 {
		t.Errorf("error = %+v", apiErr)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("cause lost: %v", err)
	}
}

func TestTransportPanicRecovered(t *testing.T) {
	d := transport.DoerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		panic("broken transport")
	})
	c := newTestClient(t, d)

	_, err := c.ListModels(context.Background(), "ag-1")
	if api.KindOf(err) != api.ErrorKindTransport {
		t.Errorf("error = %v, want transport", err)
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Token:   "tok",
		Timeout: 50 * time.Millisecond,
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	_, err = c.CallAgent(context.Background(), "ag-1", "hello")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindTransport {
		t.Fatalf("error = %v, want transport", err)
	}
	if !apiErr.IsTimeout() {
		t.Errorf("timeout flag not set: %+v", apiErr)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call took %v, deadline not enforced", elapsed)
	}
}

func TestCallerCancellation(t *testing.T) {
	d := transport.DoerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := newTestClient(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListModels(ctx, "ag-1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindTransport {
		t.Fatalf("error = %v, want transport", err)
	}
	if apiErr.Timeout {
		t.Error("cancellation reported as timeout")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("cause does not wrap context.Canceled")
	}
}

func TestTimeoutWithTransportIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	tests := []struct {
		name string
		doer transport.DoerFunc
	}{
		{"late response", func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			time.Sleep(500 * time.Millisecond)
			return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"object":"list","data":[]}`)}, nil
		}},
		{"no response", func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			<-release
			return nil, errors.New("released")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{
				Token:   "tok",
				Timeout: 50 * time.Millisecond,
				Doer:    tt.doer,
				Logger:  discardLogger(),
			})
			if err != nil {
				t.Fatal(err)
			}

			start := time.Now()
			resp, err := c.ListModels(context.Background(), "ag-1")
			elapsed := time.Since(start)

			var apiErr *api.Error
			if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindTransport {
				t.Fatalf("ListModels() = %+v, %v; want transport error", resp, err)
			}
			if !apiErr.IsTimeout() {
				t.Errorf("timeout flag not set: %+v", apiErr)
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Error("cause does not wrap context.DeadlineExceeded")
			}
			if elapsed > 400*time.Millisecond {
				t.Errorf("call took %v, deadline not enforced", elapsed)
			}
		})
	}
}

func TestCallerCancellationWithTransportIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	d := transport.DoerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		<-release
		return nil, errors.New("released")
	})
	c := newTestClient(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := c.ListModels(ctx, "ag-1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.ErrorKindTransport || apiErr.Timeout {
		t.Fatalf("error = %v, want non-timeout transport error", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("cause does not wrap context.Canceled")
	}
}
