package api

import "fmt"

// Request limits enforced by the conversations API.
const (
	MaxItemsPerRequest = 20
	MaxMetadataPairs   = 16
)

// Validate checks the fields a chat completion response must carry.
func (r *ChatCompletionResponse) Validate() error {
	if r.Choices == nil {
		return missingField("chat completion", "choices")
	}
	return nil
}

// Validate checks the fields a text completion response must carry.
func (r *TextCompletionResponse) Validate() error {
	if r.Choices == nil {
		return missingField("text completion", "choices")
	}
	return nil
}

// Validate checks the fields a model list must carry.
func (l *ModelList) Validate() error {
	if l.Data == nil {
		return missingField("model list", "data")
	}
	return nil
}

// Validate checks the fields an agent call reply must carry.
func (r *AgentCallResponse) Validate() error {
	return nil
}

// Validate checks the fields a response object must carry.
func (r *Response) Validate() error {
	if r.ID == "" {
		return missingField("response", "id")
	}
	if r.Status == "" {
		return missingField("response", "status")
	}
	return nil
}

// Validate checks the fields a conversation must carry.
func (c *Conversation) Validate() error {
	if c.ID == "" {
		return missingField("conversation", "id")
	}
	return nil
}

// Validate checks the fields a deletion confirmation must carry.
func (d *ConversationDeleted) Validate() error {
	if d.ID == "" {
		return missingField("conversation deletion", "id")
	}
	return nil
}

// Validate checks the fields a conversation item must carry.
func (item *ConversationItem) Validate() error {
	if item.ID == "" {
		return missingField("conversation item", "id")
	}
	if item.Type == "" {
		return missingField("conversation item", "type")
	}
	return nil
}

// Validate checks the fields an item page must carry.
func (l *ConversationItemList) Validate() error {
	if l.Data == nil {
		return missingField("item list", "data")
	}
	for i := range l.Data {
		if err := l.Data[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func missingField(what, field string) error {
	return NewDecodeError(fmt.Sprintf("%s is missing required field %q", what, field), nil)
}

// ValidateItems checks a batch of input items against the per-request limit.
// Every item needs a role and at least one content part.
func ValidateItems(items []ItemInput) error {
	if len(items) > MaxItemsPerRequest {
		return NewInvalidRequestError(fmt.Sprintf("at most %d items may be added at once", MaxItemsPerRequest))
	}
	for i, item := range items {
		if item.Type != "" && item.Type != ItemTypeMessage {
			return NewInvalidRequestError(fmt.Sprintf("items[%d]: unsupported item type %q", i, item.Type))
		}
		if item.Role == "" {
			return NewInvalidRequestError(fmt.Sprintf("items[%d]: role is required", i))
		}
		if len(item.Content) == 0 {
			return NewInvalidRequestError(fmt.Sprintf("items[%d]: content is required", i))
		}
	}
	return nil
}

// ValidateMetadata checks metadata against the pair limit.
func ValidateMetadata(metadata map[string]string) error {
	if len(metadata) > MaxMetadataPairs {
		return NewInvalidRequestError(fmt.Sprintf("metadata may hold at most %d pairs", MaxMetadataPairs))
	}
	return nil
}
