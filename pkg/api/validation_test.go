package api

import (
	"encoding/json"
	"strings"
	"testing"
)

type validator interface {
	Validate() error
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		target  validator
		wantErr string
	}{
		{"chat completion without choices", `{"id":"c","object":"chat.completion"}`, &ChatCompletionResponse{}, `"choices"`},
		{"chat completion with empty choices", `{"id":"c","choices":[]}`, &ChatCompletionResponse{}, ""},
		{"text completion without choices", `{"id":"c"}`, &TextCompletionResponse{}, `"choices"`},
		{"model list without data", `{"object":"list"}`, &ModelList{}, `"data"`},
		{"response without id", `{"status":"completed"}`, &Response{}, `"id"`},
		{"response without status", `{"id":"resp_1"}`, &Response{}, `"status"`},
		{"response complete", `{"id":"resp_1","status":"queued"}`, &Response{}, ""},
		{"conversation without id", `{"object":"conversation"}`, &Conversation{}, `"id"`},
		{"conversation", `{"id":"conv_1","object":"conversation","created_at":1}`, &Conversation{}, ""},
		{"deletion without id", `{"deleted":true}`, &ConversationDeleted{}, `"id"`},
		{"item without id", `{"type":"message"}`, &ConversationItem{}, `"id"`},
		{"item list without data", `{"object":"list","has_more":false}`, &ConversationItemList{}, `"data"`},
		{"item list with broken item", `{"data":[{"type":"message"}]}`, &ConversationItemList{}, `"id"`},
		{"item list empty", `{"data":[]}`, &ConversationItemList{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := json.Unmarshal([]byte(tt.body), tt.target); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			err := tt.target.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if KindOf(err) != ErrorKindDecode {
				t.Fatalf("Validate() = %v, want decode error", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateItems(t *testing.T) {
	many := make([]ItemInput, MaxItemsPerRequest+1)
	for i := range many {
		many[i] = NewInputMessage(RoleUser, "x")
	}
	tests := []struct {
		name    string
		items   []ItemInput
		wantErr bool
	}{
		{"none", nil, false},
		{"one", []ItemInput{NewInputMessage(RoleUser, "hi")}, false},
		{"at limit", many[:MaxItemsPerRequest], false},
		{"over limit", many, true},
		{"missing role", []ItemInput{{Content: []ItemContent{{Type: ItemContentInputText, Text: "x"}}}}, true},
		{"missing content", []ItemInput{{Role: RoleUser}}, true},
		{"unsupported type", []ItemInput{{Type: ItemTypeFunctionCall, Role: RoleUser, Content: []ItemContent{{Type: "input_text"}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItems(tt.items)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItems() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	md := map[string]string{}
	for i := 0; i < MaxMetadataPairs; i++ {
		md[strings.Repeat("k", i+1)] = "v"
	}
	if err := ValidateMetadata(md); err != nil {
		t.Errorf("ValidateMetadata(%d pairs) = %v", len(md), err)
	}
	md["overflow"] = "v"
	if err := ValidateMetadata(md); KindOf(err) != ErrorKindInvalidRequest {
		t.Errorf("ValidateMetadata(%d pairs) = %v, want invalid_request", len(md), err)
	}
}
