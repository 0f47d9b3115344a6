package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rhuss/twcai/pkg/api"
	"github.com/rhuss/twcai/pkg/auth"
	"github.com/rhuss/twcai/pkg/debug"
	"github.com/rhuss/twcai/pkg/observability"
	"github.com/rhuss/twcai/pkg/transport"
)

const agentsPath = "/api/v1/cloud-ai/agents/"

// messageExcerpt caps the body excerpt used as an error message when the
// server sent no machine-readable one.
const messageExcerpt = 256

// call describes one dispatch.
type call struct {
	op      string
	method  string
	agentID string

	// path is relative to the agent base and must already be escaped.
	path  string
	query url.Values
	body  any

	// public calls carry no credentials.
	public bool
	header http.Header

	// invoke marks agent invocations, which identify the client to the
	// agent proxy.
	invoke bool
}

// validator is implemented by response types with required fields.
type validator interface {
	Validate() error
}

// do runs one exchange and decodes a 2xx body into out. out may be nil to
// discard the body, or a *string to receive it verbatim.
func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics {
			observability.ObserveCall(cl.op, string(api.KindOf(err)), time.Since(start))
		}
		if err != nil {
			debug.Log("client", "dispatch failed", "operation", cl.op, "error", err)
		}
	}()

	req, err := c.newRequest(cl)
	if err != nil {
		return err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return api.NewTransportError(err, isTimeout(err))
	}
	debug.Log("client", "dispatch", "operation", cl.op, "status", resp.StatusCode)

	if apiErr := classify(resp); apiErr != nil {
		return apiErr
	}
	if err := decode(resp, out); err != nil {
		return err
	}
	if c.metrics {
		observability.ObserveTokens(tokenUsage(out))
	}
	return nil
}

// newRequest renders the URL, encodes the body and sets the headers.
func (c *Client) newRequest(cl call) (*transport.Request, error) {
	u := c.baseURL + agentsPath + url.PathEscape(cl.agentID) + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	header := http.Header{}
	for k, vs := range cl.header {
		header[k] = vs
	}
	header.Set("User-Agent", c.userAgent)
	if header.Get("Accept") == "" {
		header.Set("Accept", "application/json")
	}
	if !cl.public {
		header.Set("Authorization", auth.BearerHeader(c.token))
		if cl.invoke {
			header.Set("x-proxy-source", ProxySource)
		}
	}

	var body []byte
	if cl.body != nil {
		var err error
		body, err = json.Marshal(cl.body)
		if err != nil {
			return nil, &api.Error{
				Kind:    api.ErrorKindInvalidRequest,
				Message: "encoding request body",
				Cause:   err,
			}
		}
		header.Set("Content-Type", "application/json")
	}

	return &transport.Request{
		Method: cl.method,
		URL:    u,
		Header: header,
		Body:   body,
	}, nil
}

// roundTrip runs the exchange and gives up once ctx is done, whether or not
// the Doer watches ctx. A response arriving after that is dropped.
func (c *Client) roundTrip(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	type result struct {
		resp *transport.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := c.doer.Do(ctx, req)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classify maps a non-2xx response to an *api.Error. It returns nil for 2xx.
func classify(resp *transport.Response) *api.Error {
	if api.KindForStatus(resp.StatusCode) == "" {
		return nil
	}
	body := string(resp.Body)
	msg := errorMessage(resp.Body)
	if msg == "" {
		msg = fallbackMessage(resp.StatusCode, body)
	}
	e := api.NewStatusError(resp.StatusCode, msg, body)
	if e.Kind == api.ErrorKindRateLimited {
		e.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return e
}

func fallbackMessage(status int, body string) string {
	if api.KindForStatus(status) == api.ErrorKindInvalidRequest {
		if excerpt := strings.TrimSpace(body); excerpt != "" {
			return debug.Truncate(excerpt, messageExcerpt)
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "HTTP " + strconv.Itoa(status)
}

// errorMessage extracts a server message from the error envelopes the API
// and its proxies use: {"error":"..."}, {"error":{"message":"..."}},
// {"message":"..."} and {"detail":"..."}.
func errorMessage(body []byte) string {
	var env struct {
		Error   json.RawMessage `json:"error"`
		Message any             `json:"message"`
		Detail  any             `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if len(env.Error) > 0 {
		var s string
		if json.Unmarshal(env.Error, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	if s, ok := env.Message.(string); ok && s != "" {
		return s
	}
	if s, ok := env.Detail.(string); ok && s != "" {
		return s
	}
	return ""
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// decode unmarshals a 2xx body into out and checks its required fields.
func decode(resp *transport.Response, out any) error {
	switch v := out.(type) {
	case nil:
		return nil
	case *string:
		*v = string(resp.Body)
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return decodeError(resp, err)
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return decodeError(resp, err)
		}
	}
	return nil
}

func decodeError(resp *transport.Response, err error) *api.Error {
	var e *api.Error
	if !errors.As(err, &e) || e.Kind != api.ErrorKindDecode {
		e = api.NewDecodeError("response body does not match the expected type", err)
	}
	e.StatusCode = resp.StatusCode
	e.Body = string(resp.Body)
	if len(e.Body) > api.MaxBodySnippet {
		e.Body = e.Body[:api.MaxBodySnippet]
	}
	return e
}

// tokenUsage reads the usage block of a decoded response.
func tokenUsage(out any) (input, output int) {
	switch v := out.(type) {
	case *api.ChatCompletionResponse:
		if v.Usage != nil {
			return v.Usage.PromptTokens, v.Usage.CompletionTokens
		}
	case *api.TextCompletionResponse:
		if v.Usage != nil {
			return v.Usage.PromptTokens, v.Usage.CompletionTokens
		}
	case *api.Response:
		if u := v.Usage; u != nil {
			return u.InputTokens + u.PromptTokens, u.OutputTokens + u.CompletionTokens
		}
	}
	return 0, 0
}
