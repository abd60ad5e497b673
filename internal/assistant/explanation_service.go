package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LineExplanation pairs one source line with its generated explanation.
type LineExplanation struct {
	Line        string `json:"line"`
	Explanation string `json:"explanation"`
}

// ExplanationService asks the generative-language API for a line-by-line
// explanation of a snippet.
type ExplanationService struct {
	gemini *GeminiService
}

// NewExplanationService creates the explanation service on the shared
// Gemini client.
func NewExplanationService(gemini *GeminiService) *ExplanationService {
	return &ExplanationService{gemini: gemini}
}

// Explain requests a structured explanation. The model is asked for a JSON
// array; when the reply does not parse as one, the raw explanation lines are
// paired with the code lines positionally instead.
func (s *ExplanationService) Explain(code, language string) ([]LineExplanation, error) {
	prompt := fmt.Sprintf(
		"Please explain the following %s code line by line. For each line, provide a clear and concise "+
			"explanation of what it does. Format the response as a JSON array where each object has \"line\" "+
			"and \"explanation\" properties. Only include non-empty lines. Here's the code:\n\n%s",
		language, code,
	)

	reply, err := s.gemini.Generate(prompt)
	if err != nil {
		return nil, err
	}

	var explanations []LineExplanation
	if err := json.Unmarshal([]byte(reply), &explanations); err == nil {
		return explanations, nil
	}
	return pairLines(code, reply), nil
}

// pairLines is the fallback formatting: each non-empty code line matched to
// the explanation line at the same position.
func pairLines(code, explanation string) []LineExplanation {
	codeLines := nonEmptyLines(code)
	explanationLines := nonEmptyLines(explanation)

	paired := make([]LineExplanation, 0, len(codeLines))
	for i, line := range codeLines {
		text := "No explanation available"
		if i < len(explanationLines) {
			text = explanationLines[i]
		}
		paired = append(paired, LineExplanation{Line: line, Explanation: text})
	}
	return paired
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
