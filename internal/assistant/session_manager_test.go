package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

func newTestOpenAIService(url string) *OpenAIService {
	return &OpenAIService{
		apiURL:     url,
		apiKey:     "test-key",
		model:      "gpt-3.5-turbo",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSubmitAppendsBothTurns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Use a map."}}]}`))
	}))
	defer server.Close()

	sm := NewSessionManager(NewGeminiService(""), newTestOpenAIService(server.URL))
	session := sm.NewSession("user-1")
	defer sm.CloseSession(session)

	message, parts, err := sm.Submit(session, BackendOpenAI, "How do I dedupe?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if message.Role != models.RoleAssistant || message.Content != "Use a map." {
		t.Errorf("Unexpected assistant message: %+v", message)
	}
	if len(parts) != 1 || parts[0].Type != "text" {
		t.Errorf("Unexpected parts: %+v", parts)
	}

	history := session.History()
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages in the log, got %d", len(history))
	}
	if history[0].Role != models.RoleUser || history[1].Role != models.RoleAssistant {
		t.Errorf("Unexpected log order: %+v", history)
	}
}

func TestSubmitSendsFullHistoryToOpenAI(t *testing.T) {
	var lastCount atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		lastCount.Store(int64(len(req.Messages)))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	sm := NewSessionManager(NewGeminiService(""), newTestOpenAIService(server.URL))
	session := sm.NewSession("user-1")
	defer sm.CloseSession(session)

	if _, _, err := sm.Submit(session, BackendOpenAI, "first"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, _, err := sm.Submit(session, BackendOpenAI, "second"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// first + ok + second
	if lastCount.Load() != 3 {
		t.Errorf("Expected the full 3-message history on the second turn, got %d", lastCount.Load())
	}
}

func TestQuotaLatch(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":"insufficient_quota","message":"quota"}}`))
	}))
	defer server.Close()

	sm := NewSessionManager(NewGeminiService(""), newTestOpenAIService(server.URL))
	session := sm.NewSession("user-1")
	defer sm.CloseSession(session)

	_, _, err := sm.Submit(session, BackendOpenAI, "first")
	if !errors.Is(err, ErrQuotaLatched) {
		t.Fatalf("Expected ErrQuotaLatched, got %v", err)
	}
	if !session.QuotaExceeded() {
		t.Error("Expected the session to be latched")
	}

	// The latch must reject before any further network call.
	_, _, err = sm.Submit(session, BackendOpenAI, "second")
	if !errors.Is(err, ErrQuotaLatched) {
		t.Fatalf("Expected ErrQuotaLatched on the second submit, got %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("Expected exactly 1 backend request, got %d", requests.Load())
	}
}

func TestFreshSessionClearsLatch(t *testing.T) {
	sm := NewSessionManager(NewGeminiService(""), NewOpenAIService(""))

	first := sm.NewSession("user-1")
	first.mu.Lock()
	first.quotaExceeded = true
	first.mu.Unlock()
	sm.CloseSession(first)

	second := sm.NewSession("user-1")
	defer sm.CloseSession(second)
	if second.QuotaExceeded() {
		t.Error("Expected a fresh session to start with a cleared latch")
	}
}
