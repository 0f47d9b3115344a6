package api

import (
	"net/url"
	"strconv"
)

// ItemType represents the type of a conversation item.
type ItemType string

const (
	ItemTypeMessage            ItemType = "message"
	ItemTypeFunctionCall       ItemType = "function_call"
	ItemTypeFunctionCallOutput ItemType = "function_call_output"
)

// ItemStatus represents the processing status of an item.
type ItemStatus string

const (
	ItemStatusInProgress ItemStatus = "in_progress"
	ItemStatusIncomplete ItemStatus = "incomplete"
	ItemStatusCompleted  ItemStatus = "completed"
)

// Content part types used by conversation items.
const (
	ItemContentInputText  = "input_text"
	ItemContentOutputText = "output_text"
)

// ItemContent is one content part of a conversation item.
type ItemContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ConversationItem is a server-owned item of a conversation.
type ConversationItem struct {
	Type      ItemType      `json:"type"`
	ID        string        `json:"id"`
	Status    ItemStatus    `json:"status,omitempty"`
	Role      MessageRole   `json:"role,omitempty"`
	Content   []ItemContent `json:"content,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
}

// Text concatenates the text of the item's content parts.
func (item *ConversationItem) Text() string {
	var s string
	for _, c := range item.Content {
		s += c.Text
	}
	return s
}

// ItemInput is a message item supplied by the client, either when creating
// a conversation, appending items, or as response input.
type ItemInput struct {
	Type    ItemType      `json:"type,omitempty"`
	Role    MessageRole   `json:"role"`
	Content []ItemContent `json:"content"`
}

// NewInputMessage creates a message item with a single input_text part.
func NewInputMessage(role MessageRole, text string) ItemInput {
	return ItemInput{
		Type:    ItemTypeMessage,
		Role:    role,
		Content: []ItemContent{{Type: ItemContentInputText, Text: text}},
	}
}

// Conversation is a server-managed conversation.
type Conversation struct {
	ID        string            `json:"id"`
	Object    string            `json:"object"`
	CreatedAt int64             `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ConversationDeleted confirms a conversation deletion.
type ConversationDeleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// CreateConversationRequest creates a conversation, optionally seeded with
// up to 20 items and up to 16 metadata pairs.
type CreateConversationRequest struct {
	Items    []ItemInput       `json:"items,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// UpdateConversationRequest replaces a conversation's metadata.
type UpdateConversationRequest struct {
	Metadata map[string]string `json:"metadata"`
}

// CreateItemsRequest appends up to 20 items to a conversation.
type CreateItemsRequest struct {
	Items []ItemInput `json:"items"`
}

// ConversationItemList is one page of conversation items.
type ConversationItemList struct {
	Object  string             `json:"object"`
	Data    []ConversationItem `json:"data"`
	FirstID string             `json:"first_id"`
	LastID  string             `json:"last_id"`
	HasMore bool               `json:"has_more"`
}

// Sort orders for listing items.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListItemsQuery selects one page of conversation items. Pass LastID of
// the previous page as After to fetch the next one.
type ListItemsQuery struct {
	After   string
	Include []string
	Limit   *int
	Order   string
}

// Values encodes the query, omitting unset parameters.
func (q *ListItemsQuery) Values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	if q.After != "" {
		v.Set("after", q.After)
	}
	for _, inc := range q.Include {
		v.Add("include", inc)
	}
	if q.Limit != nil {
		v.Set("limit", strconv.Itoa(*q.Limit))
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// GetItemQuery holds the query parameters for retrieving one item.
type GetItemQuery struct {
	Include []string
}

// Values encodes the query, omitting unset parameters.
func (q *GetItemQuery) Values() url.Values {
	return includeValues(q.include())
}

func (q *GetItemQuery) include() []string {
	if q == nil {
		return nil
	}
	return q.Include
}

// CreateItemsQuery holds the query parameters for appending items.
type CreateItemsQuery struct {
	Include []string
}

// Values encodes the query, omitting unset parameters.
func (q *CreateItemsQuery) Values() url.Values {
	if q == nil {
		return url.Values{}
	}
	return includeValues(q.Include)
}

func includeValues(include []string) url.Values {
	v := url.Values{}
	for _, inc := range include {
		v.Add("include", inc)
	}
	return v
}
