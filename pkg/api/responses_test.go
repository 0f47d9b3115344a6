package api

import (
	"encoding/json"
	"testing"
)

func TestResponseInputEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input *ResponseInput
		want  string
	}{
		{"text", TextInput("Summarize this"), `"Summarize this"`},
		{"messages", MessagesInput(NewInputMessage(RoleUser, "hi")),
			`[{"type":"message","role":"user","content":[{"type":"input_text","text":"hi"}]}]`},
		{"empty messages", MessagesInput(), `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustMarshal(t, tt.input); got != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
			assertDeepEqual(t, roundTrip(t, *tt.input), *tt.input)
		})
	}

	var in ResponseInput
	if err := json.Unmarshal([]byte(`{"role":"user"}`), &in); KindOf(err) != ErrorKindDecode {
		t.Errorf("Unmarshal(object) error = %v, want decode error", err)
	}
}

func TestCreateResponseRequestOmitsUnset(t *testing.T) {
	req := CreateResponseRequest{Input: TextInput("hello")}
	if got := mustMarshal(t, req); got != `{"input":"hello"}` {
		t.Errorf("Marshal = %s", got)
	}
	if got := mustMarshal(t, CreateResponseRequest{}); got != `{}` {
		t.Errorf("Marshal(empty) = %s, want {}", got)
	}
}

func TestResponsePreservesUnknownFields(t *testing.T) {
	body := `{"id":"resp_1","object":"response","created_at":1700000000,"model":"m",` +
		`"status":"completed","reasoning":{"effort":"low"},"tool_choice":"auto",` +
		`"output":[{"type":"message","id":"msg_1","status":"completed","role":"assistant",` +
		`"content":[{"type":"output_text","text":"Hello"},{"type":"output_text","text":", world"}]}]}`

	var resp Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if err := resp.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if len(resp.Extra) != 2 {
		t.Fatalf("Extra = %v, want reasoning and tool_choice", resp.Extra)
	}
	if got := string(resp.Extra["reasoning"]); got != `{"effort":"low"}` {
		t.Errorf("Extra[reasoning] = %s", got)
	}
	if got := resp.OutputText(); got != "Hello, world" {
		t.Errorf("OutputText() = %q, want %q", got, "Hello, world")
	}

	again := roundTrip(t, resp)
	assertDeepEqual(t, again, resp)
}

func TestResponseExtraDoesNotOverrideKnownFields(t *testing.T) {
	resp := Response{
		ID:     "resp_1",
		Status: ResponseStatusCompleted,
		Extra:  map[string]json.RawMessage{"id": json.RawMessage(`"other"`)},
	}
	var decoded Response
	if err := json.Unmarshal([]byte(mustMarshal(t, resp)), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID != "resp_1" {
		t.Errorf("ID = %q, want resp_1", decoded.ID)
	}
}

func TestResponseStatusIsTerminal(t *testing.T) {
	terminal := map[ResponseStatus]bool{
		ResponseStatusQueued:         false,
		ResponseStatusInProgress:     false,
		ResponseStatusRequiresAction: false,
		ResponseStatusCompleted:      true,
		ResponseStatusIncomplete:     true,
		ResponseStatusFailed:         true,
		ResponseStatusCancelled:      true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestValidateResponseTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ResponseStatus
		to      ResponseStatus
		wantErr bool
	}{
		{"initial to queued", "", ResponseStatusQueued, false},
		{"queued to cancelled", ResponseStatusQueued, ResponseStatusCancelled, false},
		{"in_progress to completed", ResponseStatusInProgress, ResponseStatusCompleted, false},
		{"in_progress to cancelled", ResponseStatusInProgress, ResponseStatusCancelled, false},
		{"completed to cancelled", ResponseStatusCompleted, ResponseStatusCancelled, true},
		{"cancelled to in_progress", ResponseStatusCancelled, ResponseStatusInProgress, true},
		{"queued to completed", ResponseStatusQueued, ResponseStatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponseTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateResponseTransition(%q, %q) = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if err != nil && KindOf(err) != ErrorKindInvalidRequest {
				t.Errorf("kind = %q, want invalid_request", KindOf(err))
			}
		})
	}
}

func TestGetResponseQueryValues(t *testing.T) {
	var nilQuery *GetResponseQuery
	if got := nilQuery.Values().Encode(); got != "" {
		t.Errorf("nil query = %q, want empty", got)
	}
	q := &GetResponseQuery{Include: []string{"a", "b"}, StartingAfter: Ptr(3)}
	if got := q.Values().Encode(); got != "include=a&include=b&starting_after=3" {
		t.Errorf("Encode() = %q", got)
	}
}
