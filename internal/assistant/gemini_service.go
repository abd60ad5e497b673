package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// GeminiService is a single-shot client for the generative-language API. It
// receives only the latest prompt, not the conversation history.
type GeminiService struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiService creates a client for the hosted endpoint.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiURL:     defaultGeminiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt and returns the first candidate's text. An empty
// candidate list degrades to an apology string rather than an error, matching
// how the widget renders it.
func (s *GeminiService) Generate(prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode gemini request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL+"?key="+s.apiKey, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("GeminiService Error: request failed: %v", err)
		return "", fmt.Errorf("failed to reach gemini API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", resp.Status)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "Sorry, I could not generate a response.", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
