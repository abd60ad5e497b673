package assistant

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// Chat backends selectable per submission.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// ErrQuotaLatched is returned for every submission after a quota failure.
// The latch is per session and clears only when the widget reconnects.
var ErrQuotaLatched = errors.New(
	"The AI assistant is currently unavailable due to API quota limitations. " +
		"The assistant will be disabled until the quota is restored. " +
		"Please try again later or contact support.")

// ErrBusy rejects a submission while a previous one is still in flight.
// There is no cancellation of in-flight requests.
var ErrBusy = errors.New("a request is already in progress")

// Session holds one assistant conversation: the ordered message log, the
// busy flag and the quota latch. State lives only as long as the session.
type Session struct {
	ID     string
	UserID string

	mu            sync.Mutex
	messages      []models.Message
	busy          bool
	quotaExceeded bool
}

// History returns a copy of the ordered message log.
func (s *Session) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]models.Message, len(s.messages))
	copy(history, s.messages)
	return history
}

// QuotaExceeded reports whether the session is latched.
func (s *Session) QuotaExceeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotaExceeded
}

// clientFrame is one websocket message from the widget.
type clientFrame struct {
	Backend string `json:"backend"`
	Content string `json:"content"`
}

// serverFrame is one websocket message to the widget.
type serverFrame struct {
	Type          string               `json:"type"` // "message" or "error"
	Message       *models.Message      `json:"message,omitempty"`
	Parts         []models.MessagePart `json:"parts,omitempty"`
	Error         string               `json:"error,omitempty"`
	QuotaExceeded bool                 `json:"quota_exceeded,omitempty"`
}

// SessionManager owns all live assistant sessions and dispatches their
// submissions to the selected chat backend.
type SessionManager struct {
	sessions   map[string]*Session
	register   chan *Session
	unregister chan *Session
	quit       chan struct{}
	mu         sync.RWMutex

	gemini *GeminiService
	openai *OpenAIService
}

// NewSessionManager creates the manager and starts its event loop in the
// background. It lives for the remaining process lifetime.
func NewSessionManager(gemini *GeminiService, openai *OpenAIService) *SessionManager {
	sm := &SessionManager{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		quit:       make(chan struct{}),
		gemini:     gemini,
		openai:     openai,
	}
	go sm.Run()
	return sm
}

// Run is the manager's event loop, handling session registration and
// removal.
func (sm *SessionManager) Run() {
	for {
		select {
		case session := <-sm.register:
			sm.mu.Lock()
			sm.sessions[session.ID] = session
			sm.mu.Unlock()
			log.Printf("[SessionManager] Session registered: %s (user %s)", session.ID, session.UserID)

		case session := <-sm.unregister:
			sm.mu.Lock()
			if _, ok := sm.sessions[session.ID]; ok {
				delete(sm.sessions, session.ID)
				log.Printf("[SessionManager] Session unregistered: %s (user %s)", session.ID, session.UserID)
			}
			sm.mu.Unlock()

		case <-sm.quit:
			return
		}
	}
}

// NewSession creates and registers a fresh session for the user. A fresh
// session starts with an empty log and a cleared quota latch.
func (sm *SessionManager) NewSession(userID string) *Session {
	session := &Session{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	sm.register <- session
	return session
}

// CloseSession unregisters a session.
func (sm *SessionManager) CloseSession(session *Session) {
	sm.unregister <- session
}

// Submit appends the user turn to the session log, calls the selected
// backend, and appends the reply. A latched session is rejected before any
// network call. The Gemini backend receives only the latest prompt; the
// OpenAI-compatible backend receives the full ordered history.
func (sm *SessionManager) Submit(session *Session, backend, content string) (*models.Message, []models.MessagePart, error) {
	session.mu.Lock()
	if session.quotaExceeded {
		session.mu.Unlock()
		return nil, nil, ErrQuotaLatched
	}
	if session.busy {
		session.mu.Unlock()
		return nil, nil, ErrBusy
	}
	session.busy = true
	session.messages = append(session.messages, models.Message{Role: models.RoleUser, Content: content})
	history := make([]models.Message, len(session.messages))
	copy(history, session.messages)
	session.mu.Unlock()

	var reply string
	var err error
	switch backend {
	case BackendOpenAI:
		reply, err = sm.openai.Complete(history)
	default:
		reply, err = sm.gemini.Generate(content)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.busy = false
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			session.quotaExceeded = true
			return nil, nil, ErrQuotaLatched
		}
		return nil, nil, err
	}

	message := models.Message{Role: models.RoleAssistant, Content: reply}
	session.messages = append(session.messages, message)
	return &message, SplitMessage(reply), nil
}

// HandleConnection drives one websocket chat session: each frame from the
// widget is a submission, each reply is written back with its code fences
// split out. The session, and with it the quota latch, lasts until the
// connection closes.
func (sm *SessionManager) HandleConnection(conn *websocket.Conn, userID string) {
	session := sm.NewSession(userID)
	defer sm.CloseSession(session)
	defer conn.Close()

	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SessionManager] Read error on session %s: %v", session.ID, err)
			}
			return
		}
		if frame.Content == "" {
			continue
		}

		message, parts, err := sm.Submit(session, frame.Backend, frame.Content)
		if err != nil {
			out := serverFrame{
				Type:          "error",
				Error:         err.Error(),
				QuotaExceeded: session.QuotaExceeded(),
			}
			if writeErr := conn.WriteJSON(out); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(serverFrame{Type: "message", Message: message, Parts: parts}); err != nil {
			log.Printf("[SessionManager] Write error on session %s: %v", session.ID, err)
			return
		}
	}
}
