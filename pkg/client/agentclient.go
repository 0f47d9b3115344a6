package client

import (
	"context"

	"github.com/rhuss/twcai/pkg/api"
)

// AgentClient is a Client bound to one agent access ID.
type AgentClient struct {
	c  *Client
	id string
}

// ID returns the bound agent access ID.
func (a *AgentClient) ID() string { return a.id }

func (a *AgentClient) CallAgent(ctx context.Context, message string) (*api.ChatCompletionResponse, error) {
	return a.c.CallAgent(ctx, a.id, message)
}

func (a *AgentClient) Call(ctx context.Context, req *api.AgentCallRequest) (*api.AgentCallResponse, error) {
	return a.c.Call(ctx, a.id, req)
}

func (a *AgentClient) ChatCompletions(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	return a.c.ChatCompletions(ctx, a.id, req)
}

// TextCompletions runs a legacy text completion.
//
// Deprecated: Use ChatCompletions instead.
func (a *AgentClient) TextCompletions(ctx context.Context, req *api.TextCompletionRequest) (*api.TextCompletionResponse, error) {
	return a.c.TextCompletions(ctx, a.id, req)
}

func (a *AgentClient) ListModels(ctx context.Context) (*api.ModelList, error) {
	return a.c.ListModels(ctx, a.id)
}

func (a *AgentClient) EmbedCode(ctx context.Context, opts *EmbedOptions) (string, error) {
	return a.c.EmbedCode(ctx, a.id, opts)
}

func (a *AgentClient) CreateResponse(ctx context.Context, req *api.CreateResponseRequest) (*api.Response, error) {
	return a.c.CreateResponse(ctx, a.id, req)
}

func (a *AgentClient) GetResponse(ctx context.Context, responseID string, query *api.GetResponseQuery) (*api.Response, error) {
	return a.c.GetResponse(ctx, a.id, responseID, query)
}

func (a *AgentClient) DeleteResponse(ctx context.Context, responseID string) error {
	return a.c.DeleteResponse(ctx, a.id, responseID)
}

func (a *AgentClient) CancelResponse(ctx context.Context, responseID string) (*api.Response, error) {
	return a.c.CancelResponse(ctx, a.id, responseID)
}

func (a *AgentClient) CreateConversation(ctx context.Context, req *api.CreateConversationRequest) (*api.Conversation, error) {
	return a.c.CreateConversation(ctx, a.id, req)
}

func (a *AgentClient) GetConversation(ctx context.Context, conversationID string) (*api.Conversation, error) {
	return a.c.GetConversation(ctx, a.id, conversationID)
}

func (a *AgentClient) UpdateConversation(ctx context.Context, conversationID string, req *api.UpdateConversationRequest) (*api.Conversation, error) {
	return a.c.UpdateConversation(ctx, a.id, conversationID, req)
}

func (a *AgentClient) DeleteConversation(ctx context.Context, conversationID string) (*api.ConversationDeleted, error) {
	return a.c.DeleteConversation(ctx, a.id, conversationID)
}

func (a *AgentClient) ListConversationItems(ctx context.Context, conversationID string, query *api.ListItemsQuery) (*api.ConversationItemList, error) {
	return a.c.ListConversationItems(ctx, a.id, conversationID, query)
}

func (a *AgentClient) CreateConversationItems(ctx context.Context, conversationID string, req *api.CreateItemsRequest, query *api.CreateItemsQuery) (*api.ConversationItemList, error) {
	return a.c.CreateConversationItems(ctx, a.id, conversationID, req, query)
}

func (a *AgentClient) GetConversationItem(ctx context.Context, conversationID, itemID string, query *api.GetItemQuery) (*api.ConversationItem, error) {
	return a.c.GetConversationItem(ctx, a.id, conversationID, itemID, query)
}

func (a *AgentClient) DeleteConversationItem(ctx context.Context, conversationID, itemID string) (*api.Conversation, error) {
	return a.c.DeleteConversationItem(ctx, a.id, conversationID, itemID)
}
