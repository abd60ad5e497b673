package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// ErrQuotaExceeded marks a quota failure from a chat backend. The session
// manager latches on it and refuses further submissions without another
// network call.
var ErrQuotaExceeded = errors.New("quota exceeded")

// OpenAIService is a client for an OpenAI-compatible chat-completion
// endpoint. Unlike the Gemini path it receives the full ordered history on
// every turn.
type OpenAIService struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIService creates a client for the hosted endpoint.
func NewOpenAIService(apiKey string) *OpenAIService {
	return &OpenAIService{
		apiURL:     defaultOpenAIURL,
		apiKey:     apiKey,
		model:      "gpt-3.5-turbo",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatCompletionRequest struct {
	Model    string           `json:"model"`
	Messages []models.Message `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message models.Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the whole conversation and returns the assistant's reply.
func (s *OpenAIService) Complete(history []models.Message) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("OpenAI API key is not configured. Please add your API key to the environment as OPENAI_API_KEY.")
	}

	body, err := json.Marshal(chatCompletionRequest{Model: s.model, Messages: history})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("OpenAIService Error: request failed: %v", err)
		return "", fmt.Errorf("failed to reach chat API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if parsed.Error != nil && parsed.Error.Code == "insufficient_quota" {
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(raw))
	}

	if len(parsed.Choices) == 0 {
		return "Sorry, I could not process your request.", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
