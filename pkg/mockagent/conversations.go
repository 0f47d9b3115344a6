package mockagent

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/rhuss/twcai/pkg/api"
)

// itemFromInput assigns a server ID to a client-supplied message.
func itemFromInput(in api.ItemInput) api.ConversationItem {
	return api.ConversationItem{
		Type:    api.ItemTypeMessage,
		ID:      newID(MessageIDPrefix),
		Status:  api.ItemStatusCompleted,
		Role:    in.Role,
		Content: slices.Clone(in.Content),
	}
}

func itemsFromInput(inputs []api.ItemInput) []api.ConversationItem {
	items := make([]api.ConversationItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, itemFromInput(in))
	}
	return items
}

func (h *handler) handleCreateConversation(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.CreateConversationRequest
	if !readJSON(w, r, &req, true) {
		return
	}
	if err := api.ValidateItems(req.Items); err != nil {
		writeStoreError(w, err, "")
		return
	}
	if err := api.ValidateMetadata(req.Metadata); err != nil {
		writeStoreError(w, err, "")
		return
	}
	conv := h.store.CreateConversation(agentID, req.Metadata, itemsFromInput(req.Items))
	writeJSON(w, http.StatusOK, conv)
}

func (h *handler) handleGetConversation(w http.ResponseWriter, r *http.Request, agentID string) {
	conv, err := h.store.Conversation(agentID, r.PathValue("conv"))
	if err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *handler) handleUpdateConversation(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.UpdateConversationRequest
	if !readJSON(w, r, &req, false) {
		return
	}
	if err := api.ValidateMetadata(req.Metadata); err != nil {
		writeStoreError(w, err, "")
		return
	}
	conv, err := h.store.UpdateConversation(agentID, r.PathValue("conv"), req.Metadata)
	if err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *handler) handleDeleteConversation(w http.ResponseWriter, r *http.Request, agentID string) {
	id := r.PathValue("conv")
	if err := h.store.DeleteConversation(agentID, id); err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	writeJSON(w, http.StatusOK, api.ConversationDeleted{
		ID:      id,
		Object:  "conversation.deleted",
		Deleted: true,
	})
}

func (h *handler) handleListItems(w http.ResponseWriter, r *http.Request, agentID string) {
	q := r.URL.Query()
	opts := ListOptions{After: q.Get("after"), Order: q.Get("order")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}
	if opts.Order != "" && opts.Order != api.OrderAsc && opts.Order != api.OrderDesc {
		writeError(w, http.StatusBadRequest, "invalid_request_error", `order must be "asc" or "desc"`)
		return
	}

	list, err := h.store.Items(agentID, r.PathValue("conv"), opts)
	if err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) handleCreateItems(w http.ResponseWriter, r *http.Request, agentID string) {
	var req api.CreateItemsRequest
	if !readJSON(w, r, &req, false) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "items is required")
		return
	}
	if err := api.ValidateItems(req.Items); err != nil {
		writeStoreError(w, err, "")
		return
	}

	items := itemsFromInput(req.Items)
	if err := h.store.AddItems(agentID, r.PathValue("conv"), items...); err != nil {
		writeStoreError(w, err, "conversation")
		return
	}
	writeJSON(w, http.StatusOK, api.ConversationItemList{
		Object:  "list",
		Data:    items,
		FirstID: items[0].ID,
		LastID:  items[len(items)-1].ID,
	})
}

func (h *handler) handleGetItem(w http.ResponseWriter, r *http.Request, agentID string) {
	item, err := h.store.Item(agentID, r.PathValue("conv"), r.PathValue("item"))
	if err != nil {
		writeStoreError(w, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) handleDeleteItem(w http.ResponseWriter, r *http.Request, agentID string) {
	conv, err := h.store.DeleteItem(agentID, r.PathValue("conv"), r.PathValue("item"))
	if err != nil {
		writeStoreError(w, err, "item")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}
