package mockagent

import (
	"container/list"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rhuss/twcai/pkg/api"
)

// ErrNotFound is returned when a conversation, item or response does not
// exist or belongs to another agent.
var ErrNotFound = errors.New("not found")

// Pagination bounds for item listings.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListOptions selects one page of conversation items.
type ListOptions struct {
	After string
	Limit int
	Order string // "asc" or "desc" (default)
}

type conversationEntry struct {
	conv    api.Conversation
	agentID string
	items   []api.ConversationItem
	lruElem *list.Element
}

type responseEntry struct {
	resp    api.Response
	agentID string
}

// Store keeps conversations and responses in memory. Every lookup is scoped
// by agent ID. All returned values are copies.
type Store struct {
	mu               sync.Mutex
	conversations    map[string]*conversationEntry
	lru              *list.List // front = most recently used
	maxConversations int        // 0 = unlimited
	responses        map[string]*responseEntry
	now              func() time.Time
}

// NewStore creates a store holding at most maxConversations conversations.
// 0 means unlimited.
func NewStore(maxConversations int) *Store {
	return &Store{
		conversations:    make(map[string]*conversationEntry),
		lru:              list.New(),
		maxConversations: maxConversations,
		responses:        make(map[string]*responseEntry),
		now:              time.Now,
	}
}

// CreateConversation stores a new conversation seeded with items.
func (s *Store) CreateConversation(agentID string, metadata map[string]string, items []api.ConversationItem) api.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxConversations > 0 && len(s.conversations) >= s.maxConversations {
		s.evictOldest()
	}

	e := &conversationEntry{
		conv: api.Conversation{
			ID:        newID(ConversationIDPrefix),
			Object:    "conversation",
			CreatedAt: s.now().Unix(),
			Metadata:  maps.Clone(metadata),
		},
		agentID: agentID,
		items:   slices.Clone(items),
	}
	e.lruElem = s.lru.PushFront(e.conv.ID)
	s.conversations[e.conv.ID] = e
	return copyConversation(e.conv)
}

// Conversation returns a conversation by ID.
func (s *Store) Conversation(agentID, id string) (api.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, id)
	if err != nil {
		return api.Conversation{}, err
	}
	return copyConversation(e.conv), nil
}

// UpdateConversation replaces the metadata of a conversation.
func (s *Store) UpdateConversation(agentID, id string, metadata map[string]string) (api.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, id)
	if err != nil {
		return api.Conversation{}, err
	}
	e.conv.Metadata = maps.Clone(metadata)
	return copyConversation(e.conv), nil
}

// DeleteConversation removes a conversation and its items.
func (s *Store) DeleteConversation(agentID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, id)
	if err != nil {
		return err
	}
	s.lru.Remove(e.lruElem)
	delete(s.conversations, id)
	return nil
}

// AddItems appends items to a conversation.
func (s *Store) AddItems(agentID, convID string, items ...api.ConversationItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, convID)
	if err != nil {
		return err
	}
	e.items = append(e.items, items...)
	return nil
}

// Items returns one page of a conversation's items using cursor-based
// pagination on item IDs.
func (s *Store) Items(agentID, convID string, opts ListOptions) (*api.ConversationItemList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, convID)
	if err != nil {
		return nil, err
	}

	items := make([]api.ConversationItem, len(e.items))
	for i, item := range e.items {
		items[i] = copyItem(item)
	}
	if opts.Order != api.OrderAsc {
		slices.Reverse(items)
	}

	if opts.After != "" {
		idx := slices.IndexFunc(items, func(item api.ConversationItem) bool {
			return item.ID == opts.After
		})
		if idx >= 0 {
			items = items[idx+1:]
		} else {
			items = nil
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	result := &api.ConversationItemList{
		Object:  "list",
		Data:    items,
		HasMore: hasMore,
	}
	if len(items) > 0 {
		result.FirstID = items[0].ID
		result.LastID = items[len(items)-1].ID
	}
	if result.Data == nil {
		result.Data = []api.ConversationItem{}
	}
	return result, nil
}

// Item returns a single item of a conversation.
func (s *Store) Item(agentID, convID, itemID string) (api.ConversationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, convID)
	if err != nil {
		return api.ConversationItem{}, err
	}
	for _, item := range e.items {
		if item.ID == itemID {
			return copyItem(item), nil
		}
	}
	return api.ConversationItem{}, ErrNotFound
}

// DeleteItem removes an item and returns the conversation.
func (s *Store) DeleteItem(agentID, convID, itemID string) (api.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookup(agentID, convID)
	if err != nil {
		return api.Conversation{}, err
	}
	idx := slices.IndexFunc(e.items, func(item api.ConversationItem) bool {
		return item.ID == itemID
	})
	if idx < 0 {
		return api.Conversation{}, ErrNotFound
	}
	e.items = slices.Delete(e.items, idx, idx+1)
	return copyConversation(e.conv), nil
}

// SaveResponse stores a response under its ID.
func (s *Store) SaveResponse(agentID string, resp api.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[resp.ID] = &responseEntry{resp: copyResponse(resp), agentID: agentID}
}

// Response returns a stored response by ID.
func (s *Store) Response(agentID, id string) (api.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.responses[id]
	if !ok || e.agentID != agentID {
		return api.Response{}, ErrNotFound
	}
	return copyResponse(e.resp), nil
}

// DeleteResponse removes a stored response.
func (s *Store) DeleteResponse(agentID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.responses[id]
	if !ok || e.agentID != agentID {
		return ErrNotFound
	}
	delete(s.responses, id)
	return nil
}

// CancelResponse moves a response to cancelled. Responses in a terminal
// status cannot be cancelled.
func (s *Store) CancelResponse(agentID, id string) (api.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.responses[id]
	if !ok || e.agentID != agentID {
		return api.Response{}, ErrNotFound
	}
	if err := api.ValidateResponseTransition(e.resp.Status, api.ResponseStatusCancelled); err != nil {
		return api.Response{}, err
	}
	e.resp.Status = api.ResponseStatusCancelled
	return copyResponse(e.resp), nil
}

// lookup finds a conversation owned by agentID and marks it as used.
// Must be called with s.mu held.
func (s *Store) lookup(agentID, id string) (*conversationEntry, error) {
	e, ok := s.conversations[id]
	if !ok || e.agentID != agentID {
		return nil, ErrNotFound
	}
	s.lru.MoveToFront(e.lruElem)
	return e, nil
}

// evictOldest removes the least recently used conversation.
// Must be called with s.mu held.
func (s *Store) evictOldest() {
	back := s.lru.Back()
	if back == nil {
		return
	}
	id := back.Value.(string)
	s.lru.Remove(back)
	delete(s.conversations, id)
}

func copyConversation(c api.Conversation) api.Conversation {
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

func copyItem(item api.ConversationItem) api.ConversationItem {
	item.Content = slices.Clone(item.Content)
	return item
}

func copyResponse(r api.Response) api.Response {
	r.Metadata = maps.Clone(r.Metadata)
	if r.Output != nil {
		out := make([]api.ConversationItem, len(r.Output))
		for i, item := range r.Output {
			out[i] = copyItem(item)
		}
		r.Output = out
	}
	if r.Usage != nil {
		u := *r.Usage
		r.Usage = &u
	}
	if r.Error != nil {
		e := *r.Error
		r.Error = &e
	}
	r.Extra = maps.Clone(r.Extra)
	return r
}
