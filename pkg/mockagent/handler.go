package mockagent

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rhuss/twcai/pkg/api"
	"github.com/rhuss/twcai/pkg/auth"
	"github.com/rhuss/twcai/pkg/debug"
)

// BasePath is the prefix of every agent endpoint.
const BasePath = "/api/v1/cloud-ai/agents/{agent}"

// ForbiddenPrefix marks agent IDs that always answer 403.
const ForbiddenPrefix = "forbidden-"

// ModelID is the single model the mock agent reports.
const ModelID = "mock-agent"

// maxBodySize bounds request bodies.
const maxBodySize = 10 << 20

// Config configures the mock agent.
type Config struct {
	// Token is the accepted static bearer token. Required.
	Token string

	// SigningKey, when set, also accepts HS256 JWTs signed with it.
	SigningKey []byte

	// Issuer is the required iss claim of JWTs. Empty accepts any issuer.
	Issuer string

	// RequestsPerMinute limits requests per token subject. 0 disables it.
	RequestsPerMinute int

	// MaxConversations caps stored conversations. 0 means unlimited.
	MaxConversations int
}

type handler struct {
	store *Store
}

// New returns an http.Handler serving the agent API. It panics when
// cfg.Token is empty.
func New(cfg Config) http.Handler {
	h, _ := newHandler(cfg)
	return h
}

// NewWithStore is like New but also returns the backing store, so tests can
// inspect server-side state.
func NewWithStore(cfg Config) (http.Handler, *Store) {
	return newHandler(cfg)
}

func newHandler(cfg Config) (http.Handler, *Store) {
	if cfg.Token == "" {
		panic("mockagent: token is required")
	}

	authenticators := []auth.Authenticator{auth.NewStaticToken(cfg.Token, "static")}
	if len(cfg.SigningKey) > 0 {
		authenticators = append(authenticators, auth.NewHMACAuthenticator(cfg.SigningKey, cfg.Issuer))
	}
	chain := &auth.AuthChain{Authenticators: authenticators}

	var limiter auth.RateLimiter
	if cfg.RequestsPerMinute > 0 {
		limiter = auth.NewInProcessLimiter(cfg.RequestsPerMinute)
	}

	h := &handler{store: NewStore(cfg.MaxConversations)}

	protected := http.NewServeMux()
	protected.HandleFunc("POST "+BasePath+"/call", h.agent(h.handleCall))
	protected.HandleFunc("POST "+BasePath+"/v1/chat/completions", h.agent(h.handleChatCompletions))
	protected.HandleFunc("POST "+BasePath+"/v1/completions", h.agent(h.handleTextCompletions))
	protected.HandleFunc("GET "+BasePath+"/v1/models", h.agent(h.handleListModels))

	protected.HandleFunc("POST "+BasePath+"/v1/responses", h.agent(h.handleCreateResponse))
	protected.HandleFunc("GET "+BasePath+"/v1/responses/{id}", h.agent(h.handleGetResponse))
	protected.HandleFunc("DELETE "+BasePath+"/v1/responses/{id}", h.agent(h.handleDeleteResponse))
	protected.HandleFunc("POST "+BasePath+"/v1/responses/{id}/cancel", h.agent(h.handleCancelResponse))

	protected.HandleFunc("POST "+BasePath+"/v1/conversations", h.agent(h.handleCreateConversation))
	protected.HandleFunc("GET "+BasePath+"/v1/conversations/{conv}", h.agent(h.handleGetConversation))
	protected.HandleFunc("POST "+BasePath+"/v1/conversations/{conv}", h.agent(h.handleUpdateConversation))
	protected.HandleFunc("DELETE "+BasePath+"/v1/conversations/{conv}", h.agent(h.handleDeleteConversation))
	protected.HandleFunc("GET "+BasePath+"/v1/conversations/{conv}/items", h.agent(h.handleListItems))
	protected.HandleFunc("POST "+BasePath+"/v1/conversations/{conv}/items", h.agent(h.handleCreateItems))
	protected.HandleFunc("GET "+BasePath+"/v1/conversations/{conv}/items/{item}", h.agent(h.handleGetItem))
	protected.HandleFunc("DELETE "+BasePath+"/v1/conversations/{conv}/items/{item}", h.agent(h.handleDeleteItem))

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+BasePath+"/embed.js", h.agent(h.handleEmbed))
	mux.Handle("/", auth.Middleware(chain, limiter, nil)(protected))
	return mux, h.store
}

// agent wraps a handler with the agent ID check.
func (h *handler) agent(fn func(w http.ResponseWriter, r *http.Request, agentID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID := r.PathValue("agent")
		if strings.HasPrefix(agentID, ForbiddenPrefix) {
			writeError(w, http.StatusForbidden, "forbidden", "access to this agent is denied")
			return
		}
		debug.Log("mock", "request", "method", r.Method, "path", r.URL.Path, "agent", agentID)
		fn(w, r, agentID)
	}
}

// errorBody is the OpenAI-style error envelope.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	var body errorBody
	body.Error.Message = message
	body.Error.Type = errType
	writeJSON(w, status, body)
}

// writeStoreError maps store errors to HTTP responses.
func writeStoreError(w http.ResponseWriter, err error, what string) {
	var apiErr *api.Error
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadRequest, "invalid_request_error", apiErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// readJSON decodes the request body into v. An empty body leaves v
// untouched when allowEmpty is set. It writes a 400 and returns false on
// failure.
func readJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "reading request body: "+err.Error())
		return false
	}
	if len(data) > maxBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "invalid_request_error", "request body too large")
		return false
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		if allowEmpty {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid_request_error", "request body is required")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid JSON: "+err.Error())
		return false
	}
	return true
}
