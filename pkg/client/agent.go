package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rhuss/twcai/pkg/api"
)

// CallAgent sends a single user message as a chat completion.
func (c *Client) CallAgent(ctx context.Context, agentID, message string) (*api.ChatCompletionResponse, error) {
	req := &api.ChatCompletionRequest{
		Messages: []api.ChatMessage{api.UserMessage(message)},
	}
	var resp api.ChatCompletionResponse
	err := c.do(ctx, call{
		op:      "call_agent",
		method:  http.MethodPost,
		agentID: agentID,
		path:    "/v1/chat/completions",
		body:    req,
		invoke:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Call invokes the agent's simple call endpoint.
func (c *Client) Call(ctx context.Context, agentID string, req *api.AgentCallRequest) (*api.AgentCallResponse, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("call request is nil")
	}
	var resp api.AgentCallResponse
	err := c.do(ctx, call{
		op:      "call",
		method:  http.MethodPost,
		agentID: agentID,
		path:    "/call",
		body:    req,
		invoke:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatCompletions runs an OpenAI-compatible chat completion.
func (c *Client) ChatCompletions(ctx context.Context, agentID string, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("chat completion request is nil")
	}
	var resp api.ChatCompletionResponse
	err := c.do(ctx, call{
		op:      "chat_completions",
		method:  http.MethodPost,
		agentID: agentID,
		path:    "/v1/chat/completions",
		body:    req,
		invoke:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// TextCompletions runs a legacy text completion.
//
// Deprecated: Use ChatCompletions instead.
func (c *Client) TextCompletions(ctx context.Context, agentID string, req *api.TextCompletionRequest) (*api.TextCompletionResponse, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("text completion request is nil")
	}
	var resp api.TextCompletionResponse
	err := c.do(ctx, call{
		op:      "text_completions",
		method:  http.MethodPost,
		agentID: agentID,
		path:    "/v1/completions",
		body:    req,
		invoke:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListModels lists the models available to the agent.
func (c *Client) ListModels(ctx context.Context, agentID string) (*api.ModelList, error) {
	var resp api.ModelList
	err := c.do(ctx, call{
		op:      "list_models",
		method:  http.MethodGet,
		agentID: agentID,
		path:    "/v1/models",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// EmbedOptions controls the widget embed script.
type EmbedOptions struct {
	// Collapsed starts the widget collapsed. Omitted when nil.
	Collapsed *bool

	// Referer and Origin identify the embedding page. The agent checks
	// them against its allowed domains.
	Referer string
	Origin  string
}

// EmbedCode fetches the widget embed JavaScript. The endpoint is public,
// so no credentials are sent.
func (c *Client) EmbedCode(ctx context.Context, agentID string, opts *EmbedOptions) (string, error) {
	if opts == nil {
		opts = &EmbedOptions{}
	}
	header := http.Header{"Accept": {"application/javascript, */*"}}
	if opts.Referer != "" {
		header.Set("Referer", opts.Referer)
	}
	if opts.Origin != "" {
		header.Set("Origin", opts.Origin)
	}
	var query url.Values
	if opts.Collapsed != nil {
		query = url.Values{"collapsed": {strconv.FormatBool(*opts.Collapsed)}}
	}

	var script string
	err := c.do(ctx, call{
		op:      "embed_code",
		method:  http.MethodGet,
		agentID: agentID,
		path:    "/embed.js",
		query:   query,
		public:  true,
		header:  header,
	}, &script)
	return script, err
}
