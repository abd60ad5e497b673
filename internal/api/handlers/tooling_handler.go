package handlers

import (
	"net/http"

	"github.com/codecampus-community/codecampus-backend/internal/analysis"
	"github.com/codecampus-community/codecampus-backend/internal/assistant"
	"github.com/codecampus-community/codecampus-backend/internal/execution"
)

// ToolingHandler serves the editor tooling endpoints: static analysis, code
// execution and line-by-line explanation. All three are stateless.
type ToolingHandler struct {
	execution   *execution.Service
	explanation *assistant.ExplanationService
}

// NewToolingHandler creates the tooling handler.
func NewToolingHandler(executionService *execution.Service, explanationService *assistant.ExplanationService) *ToolingHandler {
	return &ToolingHandler{execution: executionService, explanation: explanationService}
}

type codeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type executeResult struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Analyze returns the heuristic metrics for a snippet.
// POST /api/analyze
func (h *ToolingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "Code is required")
		return
	}
	writeJSON(w, http.StatusOK, analysis.Analyze(req.Code, req.Language))
}

// Execute runs a snippet and returns its output. A runtime failure is still
// a 200: stderr is the program's output from the editor's point of view.
// Only an unsupported language is a client error.
// POST /api/execute
func (h *ToolingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" || req.Language == "" {
		writeJSONError(w, http.StatusBadRequest, "Code and language are required")
		return
	}

	output, err := h.execution.Run(req.Code, req.Language)
	if err != nil {
		if !execution.IsSupported(req.Language) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, executeResult{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, executeResult{Output: output})
}

// Explain returns the line-by-line explanation of a snippet.
// POST /api/explain
func (h *ToolingHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeJSONError(w, http.StatusBadRequest, "Code is required")
		return
	}

	explanations, err := h.explanation.Explain(req.Code, req.Language)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, explanations)
}
