package handlers

import (
	"net/http"
	"strconv"

	"github.com/codecampus-community/codecampus-backend/internal/api/middleware"
	"github.com/codecampus-community/codecampus-backend/internal/auth"
	"github.com/codecampus-community/codecampus-backend/internal/profile"
	"github.com/codecampus-community/codecampus-backend/internal/services"
)

// maxAvatarSize caps avatar uploads at 5 MB.
const maxAvatarSize = 5 << 20

// ProfileHandler exposes the profile row, avatar upload and the linked
// GitHub activity feed.
type ProfileHandler struct {
	profile *profile.Service
	auth    *auth.Service
	github  *services.GitHubService
}

// NewProfileHandler creates the profile handler.
func NewProfileHandler(profileService *profile.Service, authService *auth.Service, githubService *services.GitHubService) *ProfileHandler {
	return &ProfileHandler{profile: profileService, auth: authService, github: githubService}
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

// GetProfile returns the caller's profile row, creating it on first sight.
// GET /api/protected/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}

	// The identity provider is the source of truth for email and display
	// name when the row has to be created.
	user, err := h.auth.GetUser(token)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Failed to load current user")
		return
	}

	p, err := h.profile.GetProfile(userID, user.Email, user.FullName)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProfile renames the caller.
// PUT /api/protected/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FullName == "" {
		writeJSONError(w, http.StatusBadRequest, "Full name is required")
		return
	}

	if err := h.profile.UpdateFullName(token, userID, req.FullName); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// UploadAvatar replaces the caller's profile picture from a multipart form
// field named "avatar".
// POST /api/protected/profile/avatar
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user ID not found")
		return
	}
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Avatar file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.profile.UploadAvatar(token, userID, header.Filename, contentType, file)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}

// GitHubActivity returns recent public events for the GitHub username given
// in the query string.
// GET /api/protected/profile/github?username=...&limit=...
func (h *ProfileHandler) GitHubActivity(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeJSONError(w, http.StatusBadRequest, "GitHub username is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.github.RecentActivity(r.Context(), username, limit)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}
