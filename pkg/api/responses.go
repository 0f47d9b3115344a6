package api

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Request
// ---------------------------------------------------------------------------

// CreateResponseRequest is the body for creating a response. All fields are
// optional; the agent's own configuration supplies defaults, and the model
// field is ignored by agents that pin their model.
type CreateResponseRequest struct {
	Model              string            `json:"model,omitempty"`
	Instructions       string            `json:"instructions,omitempty"`
	Input              *ResponseInput    `json:"input,omitempty"`
	MaxOutputTokens    *int              `json:"max_output_tokens,omitempty"`
	Temperature        *float64          `json:"temperature,omitempty"`
	TopP               *float64          `json:"top_p,omitempty"`
	TopLogprobs        *int              `json:"top_logprobs,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	Tools              []ToolDefinition  `json:"tools,omitempty"`
	ToolChoice         any               `json:"tool_choice,omitempty"`
	ParallelToolCalls  *bool             `json:"parallel_tool_calls,omitempty"`
	MaxToolCalls       *int              `json:"max_tool_calls,omitempty"`
	PreviousResponseID string            `json:"previous_response_id,omitempty"`
	Conversation       string            `json:"conversation,omitempty"`
	Include            []string          `json:"include,omitempty"`
	Store              *bool             `json:"store,omitempty"`
	Background         *bool             `json:"background,omitempty"`
	Truncation         string            `json:"truncation,omitempty"`
	ServiceTier        string            `json:"service_tier,omitempty"`
	SafetyIdentifier   string            `json:"safety_identifier,omitempty"`
	PromptCacheKey     string            `json:"prompt_cache_key,omitempty"`
	Reasoning          *ReasoningConfig  `json:"reasoning,omitempty"`
	Text               *TextConfig       `json:"text,omitempty"`
	User               string            `json:"user,omitempty"`
}

// ToolDefinition describes a tool available to the model in the Responses API.
type ToolDefinition struct {
	Type        string          `json:"type"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Strict      *bool           `json:"strict,omitempty"`
}

// ReasoningConfig configures reasoning models.
type ReasoningConfig struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// TextConfig holds text generation configuration.
type TextConfig struct {
	Format *TextFormat `json:"format,omitempty"`
}

// TextFormat specifies the output text format. For json_schema the Name,
// Strict and Schema fields carry the schema definition.
type TextFormat struct {
	Type   string          `json:"type"`
	Name   string          `json:"name,omitempty"`
	Strict *bool           `json:"strict,omitempty"`
	Schema json.RawMessage `json:"schema,omitempty"`
}

// ResponseInput is the input of a response: either plain text or a list of
// messages. Messages != nil selects the list form.
type ResponseInput struct {
	Text     string
	Messages []ItemInput
}

// TextInput creates plain text response input.
func TextInput(text string) *ResponseInput {
	return &ResponseInput{Text: text}
}

// MessagesInput creates response input from a list of messages.
func MessagesInput(messages ...ItemInput) *ResponseInput {
	if messages == nil {
		messages = []ItemInput{}
	}
	return &ResponseInput{Messages: messages}
}

// MarshalJSON encodes text as a bare string and messages as an array.
func (in ResponseInput) MarshalJSON() ([]byte, error) {
	if in.Messages != nil {
		return json.Marshal(in.Messages)
	}
	return json.Marshal(in.Text)
}

// UnmarshalJSON tries a string first, then an array of messages.
func (in *ResponseInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*in = ResponseInput{Text: s}
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return NewDecodeError("input must be a string or an array of messages", nil)
	}
	var msgs []ItemInput
	if err := json.Unmarshal(trimmed, &msgs); err != nil {
		return asDecodeError(err, "invalid input array")
	}
	if msgs == nil {
		msgs = []ItemInput{}
	}
	*in = ResponseInput{Messages: msgs}
	return nil
}

// ---------------------------------------------------------------------------
// Response
// ---------------------------------------------------------------------------

// ResponseStatus represents the overall status of a response.
type ResponseStatus string

const (
	ResponseStatusQueued         ResponseStatus = "queued"
	ResponseStatusInProgress     ResponseStatus = "in_progress"
	ResponseStatusCompleted      ResponseStatus = "completed"
	ResponseStatusIncomplete     ResponseStatus = "incomplete"
	ResponseStatusFailed         ResponseStatus = "failed"
	ResponseStatusCancelled      ResponseStatus = "cancelled"
	ResponseStatusRequiresAction ResponseStatus = "requires_action"
)

// Response is a response object returned by the Responses API.
type Response struct {
	ID                 string             `json:"id"`
	Object             string             `json:"object"`
	CreatedAt          int64              `json:"created_at"`
	Model              string             `json:"model"`
	Status             ResponseStatus     `json:"status"`
	Usage              *ResponseUsage     `json:"usage,omitempty"`
	Output             []ConversationItem `json:"output,omitempty"`
	Error              *ResponseError     `json:"error,omitempty"`
	Metadata           map[string]string  `json:"metadata,omitempty"`
	PreviousResponseID string             `json:"previous_response_id,omitempty"`

	// Extra holds top-level fields not modelled above. They are preserved
	// when the response is encoded again.
	Extra map[string]json.RawMessage `json:"-"`
}

// ResponseUsage holds token usage for a response. Agents report either the
// input/output or the prompt/completion pair.
type ResponseUsage struct {
	InputTokens      int `json:"input_tokens,omitempty"`
	OutputTokens     int `json:"output_tokens,omitempty"`
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseError is the error recorded on a failed response.
type ResponseError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

var responseFields = []string{
	"id", "object", "created_at", "model", "status", "usage",
	"output", "error", "metadata", "previous_response_id",
}

// UnmarshalJSON decodes a Response and keeps unknown fields in Extra.
func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return asDecodeError(err, "invalid response object")
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return NewDecodeError("invalid response object", err)
	}
	for _, k := range responseFields {
		delete(all, k)
	}
	p.Extra = nil
	if len(all) > 0 {
		p.Extra = all
	}
	*r = Response(p)
	return nil
}

// MarshalJSON encodes a Response including its Extra fields.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	data, err := json.Marshal(plain(r))
	if err != nil || len(r.Extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, known := all[k]; !known {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// OutputText concatenates the text parts of all output messages.
func (r *Response) OutputText() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != ItemTypeMessage {
			continue
		}
		for _, c := range item.Content {
			if c.Type == ItemContentOutputText {
				b.WriteString(c.Text)
			}
		}
	}
	return b.String()
}

// GetResponseQuery holds the query parameters for retrieving a response.
type GetResponseQuery struct {
	Include            []string
	IncludeObfuscation *bool
	StartingAfter      *int
}

// Values encodes the query, omitting unset parameters.
func (q *GetResponseQuery) Values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	for _, inc := range q.Include {
		v.Add("include", inc)
	}
	if q.IncludeObfuscation != nil {
		v.Set("include_obfuscation", strconv.FormatBool(*q.IncludeObfuscation))
	}
	if q.StartingAfter != nil {
		v.Set("starting_after", strconv.Itoa(*q.StartingAfter))
	}
	return v
}
