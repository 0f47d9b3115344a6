package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rhuss/twcai/pkg/api"
)

func responsePath(responseID string) string {
	return "/v1/responses/" + url.PathEscape(responseID)
}

// CreateResponse creates a model response. A nil request sends an empty
// body and lets the agent's configuration supply everything.
func (c *Client) CreateResponse(ctx context.Context, agentID string, req *api.CreateResponseRequest) (*api.Response, error) {
	if req == nil {
		req = &api.CreateResponseRequest{}
	}
	return c.responseCall(ctx, call{
		op:      "create_response",
		method:  http.MethodPost,
		agentID: agentID,
		path:    "/v1/responses",
		body:    req,
	})
}

// GetResponse retrieves a response by ID.
func (c *Client) GetResponse(ctx context.Context, agentID, responseID string, query *api.GetResponseQuery) (*api.Response, error) {
	return c.responseCall(ctx, call{
		op:      "get_response",
		method:  http.MethodGet,
		agentID: agentID,
		path:    responsePath(responseID),
		query:   query.Values(),
	})
}

// DeleteResponse deletes a stored response.
func (c *Client) DeleteResponse(ctx context.Context, agentID, responseID string) error {
	return c.do(ctx, call{
		op:      "delete_response",
		method:  http.MethodDelete,
		agentID: agentID,
		path:    responsePath(responseID),
	}, nil)
}

// CancelResponse cancels a queued or in-progress background response.
func (c *Client) CancelResponse(ctx context.Context, agentID, responseID string) (*api.Response, error) {
	return c.responseCall(ctx, call{
		op:      "cancel_response",
		method:  http.MethodPost,
		agentID: agentID,
		path:    responsePath(responseID) + "/cancel",
	})
}

func (c *Client) responseCall(ctx context.Context, cl call) (*api.Response, error) {
	var resp api.Response
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
