package assistant

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newExplanationServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"candidates":[{"content":{"parts":[{"text":` + reply + `}]}}]}`
		w.Write([]byte(body))
	}))
}

func TestExplainParsesJSONReply(t *testing.T) {
	server := newExplanationServer(t,
		`"[{\"line\":\"const a = 1;\",\"explanation\":\"Declares a constant.\"}]"`)
	defer server.Close()

	s := NewExplanationService(&GeminiService{
		apiURL:     server.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	})

	explanations, err := s.Explain("const a = 1;", "javascript")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(explanations) != 1 {
		t.Fatalf("Expected 1 explanation, got %d", len(explanations))
	}
	if explanations[0].Explanation != "Declares a constant." {
		t.Errorf("Unexpected explanation: %+v", explanations[0])
	}
}

func TestExplainFallsBackToLinePairing(t *testing.T) {
	server := newExplanationServer(t, `"Declares a constant.\nPrints it."`)
	defer server.Close()

	s := NewExplanationService(&GeminiService{
		apiURL:     server.URL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	})

	explanations, err := s.Explain("const a = 1;\nconsole.log(a);", "javascript")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(explanations) != 2 {
		t.Fatalf("Expected 2 paired lines, got %d", len(explanations))
	}
	if explanations[0].Line != "const a = 1;" || explanations[0].Explanation != "Declares a constant." {
		t.Errorf("Unexpected first pairing: %+v", explanations[0])
	}
}

func TestPairLinesFillsMissingExplanations(t *testing.T) {
	paired := pairLines("a\nb\nc", "only one line")
	if len(paired) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(paired))
	}
	if paired[2].Explanation != "No explanation available" {
		t.Errorf("Expected the filler text, got %q", paired[2].Explanation)
	}
}
