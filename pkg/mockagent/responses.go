package mockagent

import (
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/twcai/pkg/api"
)

// inputText returns the text the response answers: plain input, or the
// text parts of the last user message.
func inputText(in *api.ResponseInput) string {
	if in == nil {
		return ""
	}
	if in.Messages == nil {
		return in.Text
	}
	for i := len(in.Messages) - 1; i >= 0; i-- {
		m := in.Messages[i]
		if m.Role != api.RoleUser {
			continue
		}
		var parts []string
		for _, c := range m.Content {
			parts = append(parts, c.Text)
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// inputItems converts response input into conversation items.
func inputItems(in *api.ResponseInput) []api.ConversationItem {
	if in == nil {
		return nil
	}
	if in.Messages == nil {
		if in.Text == "" {
			return nil
		}
		return []api.ConversationItem{itemFromInput(api.NewInputMessage(api.RoleUser, in.Text))}
	}
	items := make([]api.ConversationItem, 0, len(in.Messages))
	for _, m := range in.Messages {
		items = append(items, itemFromInput(m))
	}
	return items
}

func outputMessage(text string) api.ConversationItem {
	return api.ConversationItem{
		Type:    api.ItemTypeMessage,
		ID:      newID(MessageIDPrefix),
		Status:  api.ItemStatusCompleted,
		Role:    api.RoleAssistant,
		Content: []api.ItemContent{{Type: api.ItemContentOutputText, Text: text}},
	}
}

func (h *handler) handleCreateResponse(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.CreateResponseRequest
	if !readJSON(w, r, &req, true) {
		return
	}
	if err := api.ValidateMetadata(req.Metadata); err != nil {
		writeStoreError(w, err, "")
		return
	}
	if req.PreviousResponseID != "" {
		if _, err := h.store.Response(agentID, req.PreviousResponseID); err != nil {
			writeStoreError(w, err, "previous response")
			return
		}
	}
	if req.Conversation != "" {
		if _, err := h.store.Conversation(agentID, req.Conversation); err != nil {
			writeStoreError(w, err, "conversation")
			return
		}
	}

	resp := api.Response{
		ID:                 newID(ResponseIDPrefix),
		Object:             "response",
		CreatedAt:          time.Now().Unix(),
		Model:              ModelID,
		Metadata:           req.Metadata,
		PreviousResponseID: req.PreviousResponseID,
	}

	background := req.Background != nil && *req.Background
	if background {
		resp.Status = api.ResponseStatusQueued
	} else {
		text := inputText(req.Input)
		reply := echo(text)
		resp.Status = api.ResponseStatusCompleted
		resp.Output = []api.ConversationItem{outputMessage(reply)}
		in, out := countTokens(text), countTokens(reply)
		resp.Usage = &api.ResponseUsage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}

		if req.Conversation != "" {
			items := append(inputItems(req.Input), resp.Output...)
			if err := h.store.AddItems(agentID, req.Conversation, items...); err != nil {
				writeStoreError(w, err, "conversation")
				return
			}
		}
	}

	if background || req.Store == nil || *req.Store {
		h.store.SaveResponse(agentID, resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleGetResponse(w http.ResponseWriter, r *http.Request, agentID string) {
	resp, err := h.store.Response(agentID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "response")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleDeleteResponse(w http.ResponseWriter, r *http.Request, agentID string) {
	id := r.PathValue("id")
	if err := h.store.DeleteResponse(agentID, id); err != nil {
		writeStoreError(w, err, "response")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"object":  "response",
		"deleted": true,
	})
}

func (h *handler) handleCancelResponse(w http.ResponseWriter, r *http.Request, agentID string) {
	resp, err := h.store.CancelResponse(agentID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "response")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
