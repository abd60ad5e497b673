package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/codecampus-community/codecampus-backend/internal/api/middleware"
	"github.com/codecampus-community/codecampus-backend/internal/assistant"
	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// AssistantHandler exposes the chat assistant: a websocket session for the
// widget, and a stateless REST fallback.
type AssistantHandler struct {
	manager  *assistant.SessionManager
	gemini   *assistant.GeminiService
	openai   *assistant.OpenAIService
	upgrader websocket.Upgrader
}

// NewAssistantHandler creates the assistant handler. Origin checking is
// delegated to the CORS layer.
func NewAssistantHandler(manager *assistant.SessionManager, gemini *assistant.GeminiService, openai *assistant.OpenAIService) *AssistantHandler {
	return &AssistantHandler{
		manager: manager,
		gemini:  gemini,
		openai:  openai,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades to a websocket chat session. The session, and with it the
// conversation log and quota latch, lasts until the connection closes.
// GET /api/protected/assistant/ws
func (h *AssistantHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("AssistantHandler Error: websocket upgrade failed: %v", err)
		return
	}
	go h.manager.HandleConnection(conn, userID)
}

type chatRequest struct {
	Backend  string           `json:"backend"`
	Messages []models.Message `json:"messages"`
}

type chatResponse struct {
	Message models.Message       `json:"message"`
	Parts   []models.MessagePart `json:"parts"`
}

// Chat is the stateless REST variant: the client carries the history. The
// Gemini backend receives only the latest prompt; the OpenAI-compatible
// backend receives the full ordered history.
// POST /api/protected/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		writeJSONError(w, http.StatusBadRequest, "At least one message is required")
		return
	}
	latest := req.Messages[len(req.Messages)-1]
	if latest.Role != models.RoleUser || latest.Content == "" {
		writeJSONError(w, http.StatusBadRequest, "The last message must be a non-empty user message")
		return
	}

	var reply string
	var err error
	switch req.Backend {
	case assistant.BackendOpenAI:
		reply, err = h.openai.Complete(req.Messages)
	default:
		reply, err = h.gemini.Generate(latest.Content)
	}
	if err != nil {
		if errors.Is(err, assistant.ErrQuotaExceeded) {
			writeJSONError(w, http.StatusServiceUnavailable, assistant.ErrQuotaLatched.Error())
			return
		}
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message: models.Message{Role: models.RoleAssistant, Content: reply},
		Parts:   assistant.SplitMessage(reply),
	})
}
