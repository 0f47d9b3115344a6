package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rhuss/twcai/pkg/api"
)

func conversationPath(conversationID string) string {
	return "/v1/conversations/" + url.PathEscape(conversationID)
}

func itemPath(conversationID, itemID string) string {
	return conversationPath(conversationID) + "/items/" + url.PathEscape(itemID)
}

// CreateConversation creates a conversation, optionally seeded with items
// and metadata.
func (c *Client) CreateConversation(ctx context.Context, agentID string, req *api.CreateConversationRequest) (*api.Conversation, error) {
	if req == nil {
		req = &api.CreateConversationRequest{}
	}
	return c.conversationCall(ctx, call{
		op:      "create_conversation",
		method:  http.MethodPost,
		agentID: agentID,
		path:    "/v1/conversations",
		body:    req,
	})
}

// GetConversation retrieves a conversation by ID.
func (c *Client) GetConversation(ctx context.Context, agentID, conversationID string) (*api.Conversation, error) {
	return c.conversationCall(ctx, call{
		op:      "get_conversation",
		method:  http.MethodGet,
		agentID: agentID,
		path:    conversationPath(conversationID),
	})
}

// UpdateConversation replaces the metadata of a conversation.
func (c *Client) UpdateConversation(ctx context.Context, agentID, conversationID string, req *api.UpdateConversationRequest) (*api.Conversation, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("update request is nil")
	}
	return c.conversationCall(ctx, call{
		op:      "update_conversation",
		method:  http.MethodPost,
		agentID: agentID,
		path:    conversationPath(conversationID),
		body:    req,
	})
}

// DeleteConversation deletes a conversation and its items.
func (c *Client) DeleteConversation(ctx context.Context, agentID, conversationID string) (*api.ConversationDeleted, error) {
	var resp api.ConversationDeleted
	err := c.do(ctx, call{
		op:      "delete_conversation",
		method:  http.MethodDelete,
		agentID: agentID,
		path:    conversationPath(conversationID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListConversationItems fetches one page of items. Pass the LastID of a
// page as query.After to fetch the next one.
func (c *Client) ListConversationItems(ctx context.Context, agentID, conversationID string, query *api.ListItemsQuery) (*api.ConversationItemList, error) {
	return c.itemListCall(ctx, call{
		op:      "list_conversation_items",
		method:  http.MethodGet,
		agentID: agentID,
		path:    conversationPath(conversationID) + "/items",
		query:   query.Values(),
	})
}

// CreateConversationItems appends items to a conversation and returns the
// created items.
func (c *Client) CreateConversationItems(ctx context.Context, agentID, conversationID string, req *api.CreateItemsRequest, query *api.CreateItemsQuery) (*api.ConversationItemList, error) {
	if req == nil {
		return nil, api.NewInvalidRequestError("create items request is nil")
	}
	return c.itemListCall(ctx, call{
		op:      "create_conversation_items",
		method:  http.MethodPost,
		agentID: agentID,
		path:    conversationPath(conversationID) + "/items",
		query:   query.Values(),
		body:    req,
	})
}

// GetConversationItem retrieves a single item.
func (c *Client) GetConversationItem(ctx context.Context, agentID, conversationID, itemID string, query *api.GetItemQuery) (*api.ConversationItem, error) {
	var resp api.ConversationItem
	err := c.do(ctx, call{
		op:      "get_conversation_item",
		method:  http.MethodGet,
		agentID: agentID,
		path:    itemPath(conversationID, itemID),
		query:   query.Values(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteConversationItem removes an item and returns the conversation it
// belonged to.
func (c *Client) DeleteConversationItem(ctx context.Context, agentID, conversationID, itemID string) (*api.Conversation, error) {
	return c.conversationCall(ctx, call{
		op:      "delete_conversation_item",
		method:  http.MethodDelete,
		agentID: agentID,
		path:    itemPath(conversationID, itemID),
	})
}

func (c *Client) conversationCall(ctx context.Context, cl call) (*api.Conversation, error) {
	var resp api.Conversation
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) itemListCall(ctx context.Context, cl call) (*api.ConversationItemList, error) {
	var resp api.ConversationItemList
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
