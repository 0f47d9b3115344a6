package api

import (
	"encoding/json"
	"fmt"
)

// Ptr returns a pointer to v. Use it to set optional request parameters:
//
//	req.Temperature = api.Ptr(0.7)
func Ptr[T any](v T) *T {
	return &v
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// MessageRole represents the role of a message sender.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
	RoleDeveloper MessageRole = "developer"
)

// ChatMessage is one message of a chat completion conversation.
type ChatMessage struct {
	Role       MessageRole `json:"role"`
	Content    ChatContent `json:"content"`
	Name       string      `json:"name,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
}

// MarshalJSON encodes empty text content as null when the message only
// carries tool calls, matching how assistants send them.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type plain ChatMessage
	if len(m.ToolCalls) == 0 || m.Content.IsMultimodal() || m.Content.Text != "" {
		return json.Marshal(plain(m))
	}
	return json.Marshal(struct {
		plain
		Content *ChatContent `json:"content"`
	}{plain: plain(m)})
}

// SystemMessage creates a system message with plain text content.
func SystemMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: TextContent(text)}
}

// UserMessage creates a user message with plain text content.
func UserMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: TextContent(text)}
}

// AssistantMessage creates an assistant message with plain text content.
func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: TextContent(text)}
}

// UserMultimodalMessage creates a user message from an ordered list of items.
func UserMultimodalMessage(items ...ContentItem) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: MultimodalContent(items...)}
}

// ToolCall represents a tool call in an assistant message.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds function name and JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ---------------------------------------------------------------------------
// Tools and output format
// ---------------------------------------------------------------------------

// Tool is a tool definition offered to the model.
type Tool struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef is a function definition for a tool.
type FunctionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Strict      *bool           `json:"strict,omitempty"`
}

// ToolChoice represents a tool selection strategy. It is either a simple
// string ("auto", "required", "none") or a specific function.
type ToolChoice struct {
	String   string
	Function *ToolChoiceFunction
}

// ToolChoiceFunction selects a particular function by name.
type ToolChoiceFunction struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

var (
	// ToolChoiceAuto lets the model decide whether to use a tool.
	ToolChoiceAuto = ToolChoice{String: "auto"}
	// ToolChoiceRequired forces the model to use a tool.
	ToolChoiceRequired = ToolChoice{String: "required"}
	// ToolChoiceNone prevents the model from using any tool.
	ToolChoiceNone = ToolChoice{String: "none"}
)

// NewToolChoiceFunction creates a ToolChoice that selects a specific function by name.
func NewToolChoiceFunction(name string) ToolChoice {
	f := &ToolChoiceFunction{Type: "function"}
	f.Function.Name = name
	return ToolChoice{Function: f}
}

// MarshalJSON serializes ToolChoice as either a JSON string or a JSON object.
func (tc ToolChoice) MarshalJSON() ([]byte, error) {
	if tc.String != "" {
		return json.Marshal(tc.String)
	}
	if tc.Function != nil {
		return json.Marshal(tc.Function)
	}
	return nil, fmt.Errorf("ToolChoice has neither string value nor function")
}

// UnmarshalJSON deserializes ToolChoice from either a JSON string or a JSON object.
func (tc *ToolChoice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		tc.String = s
		tc.Function = nil
		return nil
	}

	var f ToolChoiceFunction
	if err := json.Unmarshal(data, &f); err != nil {
		return NewDecodeError("tool_choice must be a string or object", err)
	}
	tc.String = ""
	tc.Function = &f
	return nil
}

// ResponseFormat constrains the model output: "text", "json_object" or
// "json_schema" (with JSONSchema set).
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ---------------------------------------------------------------------------
// Chat completions
// ---------------------------------------------------------------------------

// ChatCompletionRequest is the request body for chat completions. Every
// generation parameter is optional; unset parameters are omitted from the
// payload so that the agent's server-side defaults apply.
type ChatCompletionRequest struct {
	Model               string            `json:"model,omitempty"`
	Messages            []ChatMessage     `json:"messages"`
	Temperature         *float64          `json:"temperature,omitempty"`
	TopP                *float64          `json:"top_p,omitempty"`
	MaxCompletionTokens *int              `json:"max_completion_tokens,omitempty"`
	MaxTokens           *int              `json:"max_tokens,omitempty"`
	N                   *int              `json:"n,omitempty"`
	Stop                []string          `json:"stop,omitempty"`
	PresencePenalty     *float64          `json:"presence_penalty,omitempty"`
	FrequencyPenalty    *float64          `json:"frequency_penalty,omitempty"`
	Seed                *int64            `json:"seed,omitempty"`
	Logprobs            *bool             `json:"logprobs,omitempty"`
	TopLogprobs         *int              `json:"top_logprobs,omitempty"`
	User                string            `json:"user,omitempty"`
	ResponseFormat      *ResponseFormat   `json:"response_format,omitempty"`
	Tools               []Tool            `json:"tools,omitempty"`
	ToolChoice          *ToolChoice       `json:"tool_choice,omitempty"`
	ParallelToolCalls   *bool             `json:"parallel_tool_calls,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// FinishReason explains why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonToolCalls     FinishReason = "tool_calls"
)

// ChatCompletionResponse is the response from chat completions.
type ChatCompletionResponse struct {
	ID                string       `json:"id"`
	Object            string       `json:"object"`
	Created           int64        `json:"created"`
	Model             string       `json:"model"`
	Choices           []ChatChoice `json:"choices"`
	Usage             *Usage       `json:"usage,omitempty"`
	SystemFingerprint string       `json:"system_fingerprint,omitempty"`
}

// ChatChoice represents one completion choice.
type ChatChoice struct {
	Index        int             `json:"index"`
	Message      ChatMessage     `json:"message"`
	FinishReason FinishReason    `json:"finish_reason,omitempty"`
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
}

// Text returns the content of the first choice, or "" if there is none.
func (r *ChatCompletionResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content.String()
}

// Usage holds token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ---------------------------------------------------------------------------
// Legacy text completions
// ---------------------------------------------------------------------------

// TextCompletionRequest is the request body for legacy text completions.
type TextCompletionRequest struct {
	Prompt           string   `json:"prompt"`
	Model            string   `json:"model,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	N                *int     `json:"n,omitempty"`
	Logprobs         *int     `json:"logprobs,omitempty"`
	Echo             *bool    `json:"echo,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	BestOf           *int     `json:"best_of,omitempty"`
	User             string   `json:"user,omitempty"`
}

// TextCompletionResponse is the response from legacy text completions.
type TextCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []TextCompletionChoice `json:"choices"`
	Usage   *Usage                 `json:"usage,omitempty"`
}

// TextCompletionChoice is one generated text.
type TextCompletionChoice struct {
	Text         string                  `json:"text"`
	Index        int                     `json:"index"`
	Logprobs     *TextCompletionLogprobs `json:"logprobs,omitempty"`
	FinishReason FinishReason            `json:"finish_reason"`
}

// TextCompletionLogprobs holds per-token log probabilities.
type TextCompletionLogprobs struct {
	Tokens        []string             `json:"tokens"`
	TokenLogprobs []float64            `json:"token_logprobs"`
	TopLogprobs   []map[string]float64 `json:"top_logprobs"`
	TextOffset    []int                `json:"text_offset"`
}

// ---------------------------------------------------------------------------
// Models and agent calls
// ---------------------------------------------------------------------------

// Model describes a model available to an agent.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the response from the models endpoint.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// AgentCallRequest is the body of the agent's simple call endpoint.
type AgentCallRequest struct {
	Message         string   `json:"message,omitempty"`
	ParentMessageID string   `json:"parent_message_id,omitempty"`
	FileIDs         []string `json:"file_ids,omitempty"`
}

// AgentCallResponse is the reply of the agent's simple call endpoint.
type AgentCallResponse struct {
	ID           string       `json:"id,omitempty"`
	Message      string       `json:"message"`
	FinishReason FinishReason `json:"finish_reason,omitempty"`
	ResponseID   string       `json:"response_id,omitempty"`
}
