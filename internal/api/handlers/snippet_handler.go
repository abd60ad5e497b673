package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codecampus-community/codecampus-backend/internal/api/middleware"
	"github.com/codecampus-community/codecampus-backend/internal/snippets"
)

// SnippetHandler exposes the snippet repository facade over HTTP.
type SnippetHandler struct {
	snippets *snippets.Service
}

// NewSnippetHandler creates the snippet handler.
func NewSnippetHandler(service *snippets.Service) *SnippetHandler {
	return &SnippetHandler{snippets: service}
}

type commentRequest struct {
	Content string `json:"content"`
}

// List returns every snippet, newest first, with authors, comments and
// like-sets materialized.
// GET /api/snippets
func (h *SnippetHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.snippets.FetchAll()
	if err != nil {
		log.Printf("SnippetHandler Error: list failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Create stores a new snippet owned by the authenticated user.
// POST /api/protected/snippets
func (h *SnippetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}

	var input snippets.CreateSnippetInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Title == "" || input.Code == "" || input.Language == "" {
		writeJSONError(w, http.StatusBadRequest, "Title, code and language are required")
		return
	}

	created, err := h.snippets.Create(userID, input)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update applies an author-partial patch. Authorship is enforced by
// row-level security on the backend, not re-checked here.
// PUT /api/protected/snippets/{id}
func (h *SnippetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input snippets.UpdateSnippetInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := h.snippets.Update(mux.Vars(r)["id"], input); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete removes a snippet; dependent comments and likes cascade
// server-side.
// DELETE /api/protected/snippets/{id}
func (h *SnippetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.snippets.Delete(mux.Vars(r)["id"]); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Like inserts the caller's like row for a snippet. A duplicate like
// surfaces the backend error rather than being silently reconciled.
// POST /api/protected/snippets/{id}/like
func (h *SnippetHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	if err := h.snippets.Like(mux.Vars(r)["id"], userID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": true})
}

// Unlike deletes the caller's like row for a snippet.
// POST /api/protected/snippets/{id}/unlike
func (h *SnippetHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	if err := h.snippets.Unlike(mux.Vars(r)["id"], userID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": false})
}

// AddComment writes a comment on a snippet.
// POST /api/protected/snippets/{id}/comments
func (h *SnippetHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}

	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeJSONError(w, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment, err := h.snippets.AddComment(mux.Vars(r)["id"], userID, req.Content)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// UpdateComment replaces a comment's content.
// PUT /api/protected/comments/{id}
func (h *SnippetHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeJSONError(w, http.StatusBadRequest, "Comment content is required")
		return
	}
	if err := h.snippets.UpdateComment(mux.Vars(r)["id"], req.Content); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteComment removes a comment.
// DELETE /api/protected/comments/{id}
func (h *SnippetHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.snippets.DeleteComment(mux.Vars(r)["id"]); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// LikeComment inserts the caller's like row for a comment.
// POST /api/protected/comments/{id}/like
func (h *SnippetHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	if err := h.snippets.LikeComment(mux.Vars(r)["id"], userID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": true})
}

// UnlikeComment deletes the caller's like row for a comment.
// POST /api/protected/comments/{id}/unlike
func (h *SnippetHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	if err := h.snippets.UnlikeComment(mux.Vars(r)["id"], userID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": false})
}
