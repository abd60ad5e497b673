package execution

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// LanguageRuntime pins a language tag to the sandbox runtime version it runs
// under.
type LanguageRuntime struct {
	Language string `json:"language"`
	Version  string `json:"version"`
}

// languageRuntimes is the static language→version map for the remote
// execution sandbox. Unsupported languages fail fast before any request.
var languageRuntimes = map[string]LanguageRuntime{
	"javascript": {Language: "javascript", Version: "18.15.0"},
	"python":     {Language: "python", Version: "3.10.0"},
	"typescript": {Language: "typescript", Version: "5.0.3"},
	"java":       {Language: "java", Version: "15.0.2"},
	"cpp":        {Language: "cpp", Version: "10.2.0"},
	"csharp":     {Language: "csharp", Version: "6.12.0"},
	"php":        {Language: "php", Version: "8.2.3"},
	"ruby":       {Language: "ruby", Version: "3.2.1"},
	"swift":      {Language: "swift", Version: "5.8"},
	"go":         {Language: "go", Version: "1.19.5"},
	"rust":       {Language: "rust", Version: "1.68.2"},
	"kotlin":     {Language: "kotlin", Version: "1.8.20"},
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
}

type executeFile struct {
	Content string `json:"content"`
}

type executeResponse struct {
	Run struct {
		Output string `json:"output"`
		Stderr string `json:"stderr"`
	} `json:"run"`
}

// IsSupported reports whether the language has a pinned sandbox runtime.
func IsSupported(language string) bool {
	_, ok := languageRuntimes[language]
	return ok
}

// Service runs user code: JavaScript in-process, everything else through the
// remote execution sandbox. Single-shot request/response, no retries.
type Service struct {
	pistonURL  string
	httpClient *http.Client
}

// NewService creates the execution service against the given sandbox URL.
func NewService(pistonURL string) *Service {
	return &Service{
		pistonURL:  pistonURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Run executes the snippet and returns its stdout. A non-empty stderr is
// returned as the error so the caller can render it as the program's output.
func (s *Service) Run(code, language string) (string, error) {
	if language == "javascript" {
		return runJavaScript(code)
	}

	runtime, ok := languageRuntimes[language]
	if !ok {
		return "", fmt.Errorf("Language %s is not supported.", language)
	}

	body, err := json.Marshal(executeRequest{
		Language: runtime.Language,
		Version:  runtime.Version,
		Files:    []executeFile{{Content: withBoilerplate(code, language)}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode execution request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.pistonURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create execution request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("ExecutionService Error: sandbox request failed: %v", err)
		return "", fmt.Errorf("failed to reach execution sandbox: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read execution response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("execution sandbox returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result executeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode execution response: %w", err)
	}

	if result.Run.Output != "" {
		return result.Run.Output, nil
	}
	if result.Run.Stderr != "" {
		return "", errors.New(result.Run.Stderr)
	}
	return "Program executed successfully with no output.", nil
}

// withBoilerplate wraps bare statements in the entrypoint scaffolding that
// compiled languages require.
func withBoilerplate(code, language string) string {
	switch language {
	case "java":
		return "public class Main {\n    public static void main(String[] args) {\n        " + code + "\n    }\n}"
	case "cpp":
		return "#include <iostream>\nusing namespace std;\n\nint main() {\n    " + code + "\n    return 0;\n}"
	case "csharp":
		return "using System;\n\nclass Program {\n    static void Main() {\n        " + code + "\n    }\n}"
	case "kotlin":
		return "fun main() {\n    " + code + "\n}"
	default:
		return code
	}
}
