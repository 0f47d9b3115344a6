package mockagent

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rhuss/twcai/pkg/api"
)

// EchoPrefix starts every generated reply.
const EchoPrefix = "echo: "

func echo(text string) string {
	return EchoPrefix + text
}

// countTokens approximates token usage by counting words.
func countTokens(s string) int {
	return len(strings.Fields(s))
}

// lastUserText returns the text of the last user message.
func lastUserText(messages []api.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == api.RoleUser {
			return messages[i].Content.String()
		}
	}
	return ""
}

func (h *handler) handleCall(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.AgentCallRequest
	if !readJSON(w, r, &req, false) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
		return
	}
	writeJSON(w, http.StatusOK, api.AgentCallResponse{
		ID:           newID(MessageIDPrefix),
		Message:      echo(req.Message),
		FinishReason: api.FinishReasonStop,
	})
}

func (h *handler) handleChatCompletions(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.ChatCompletionRequest
	if !readJSON(w, r, &req, false) {
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "messages is required")
		return
	}

	prompt := 0
	for _, m := range req.Messages {
		prompt += countTokens(m.Content.String())
	}
	reply := echo(lastUserText(req.Messages))
	completion := countTokens(reply)

	writeJSON(w, http.StatusOK, api.ChatCompletionResponse{
		ID:      newID(CompletionIDPrefix),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   ModelID,
		Choices: []api.ChatChoice{{
			Index:        0,
			Message:      api.AssistantMessage(reply),
			FinishReason: api.FinishReasonStop,
		}},
		Usage: &api.Usage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		},
	})
}

func (h *handler) handleTextCompletions(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.TextCompletionRequest
	if !readJSON(w, r, &req, false) {
		return
	}
	reply := echo(req.Prompt)
	prompt, completion := countTokens(req.Prompt), countTokens(reply)

	writeJSON(w, http.StatusOK, api.TextCompletionResponse{
		ID:      newID(CompletionIDPrefix),
		Object:  "text_completion",
		Created: time.Now().Unix(),
		Model:   ModelID,
		Choices: []api.TextCompletionChoice{{
			Text:         reply,
			Index:        0,
			FinishReason: api.FinishReasonStop,
		}},
		Usage: &api.Usage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		},
	})
}

func (h *handler) handleListModels(w http.ResponseWriter, r *http.Request, agentID string) {
	writeJSON(w, http.StatusOK, api.ModelList{
		Object: "list",
		Data: []api.Model{{
			ID:      ModelID,
			Object:  "model",
			OwnedBy: "twcai",
		}},
	})
}

// handleEmbed serves the widget script. It needs no credentials.
func (h *handler) handleEmbed(w http.ResponseWriter, r *http.Request, agentID string) {
	collapsed := false
	if v := r.URL.Query().Get("collapsed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "collapsed must be a boolean")
			return
		}
		collapsed = b
	}

	settings, _ := json.Marshal(map[string]any{
		"agentId":   agentID,
		"collapsed": collapsed,
		"origin":    r.Header.Get("Origin"),
	})
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "window.twcAgentWidget = %s;\n", settings)
}
