package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/codecampus-community/codecampus-backend/internal/api/middleware"
	"github.com/codecampus-community/codecampus-backend/internal/auth"
	"github.com/codecampus-community/codecampus-backend/internal/profile"
)

// AdminHandler guards the destructive admin operations behind an email
// allowlist.
type AdminHandler struct {
	profile     *profile.Service
	auth        *auth.Service
	adminEmails []string
}

// NewAdminHandler creates the admin handler. adminEmails is the allowlist
// from configuration.
func NewAdminHandler(profileService *profile.Service, authService *auth.Service, adminEmails []string) *AdminHandler {
	return &AdminHandler{profile: profileService, auth: authService, adminEmails: adminEmails}
}

func (h *AdminHandler) isAdmin(email string) bool {
	for _, admin := range h.adminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

// DeleteUser removes a user and all of their content. The requester must be
// on the admin allowlist.
// DELETE /api/protected/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}

	requester, err := h.auth.GetUser(token)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Failed to load current user")
		return
	}
	if !h.isAdmin(requester.Email) {
		log.Printf("AdminHandler Warning: %s attempted admin delete without permission", requester.Email)
		writeJSONError(w, http.StatusForbidden, "Admin privileges required")
		return
	}

	targetID := mux.Vars(r)["id"]
	if err := h.profile.DeleteUser(targetID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
