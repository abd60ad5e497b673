package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codecampus-community/codecampus-backend/internal/api/middleware"
	"github.com/codecampus-community/codecampus-backend/internal/auth"
)

// AuthHandler exposes the identity operations over HTTP.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type unlinkRequest struct {
	Password string `json:"password"`
}

// SignUp registers a new account.
// POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeJSONError(w, http.StatusBadRequest, "Email, password and full name are required")
		return
	}

	session, err := h.auth.SignUp(req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyRegistered):
			writeJSONError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrProfileFailed), errors.Is(err, auth.ErrSignupFailed):
			writeJSONError(w, http.StatusInternalServerError, err.Error())
		default:
			writeJSONError(w, http.StatusInternalServerError, "Failed to complete signup. Please try again.")
		}
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// SignIn exchanges credentials for a session.
// POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Failed to sign in. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// OAuthSignIn returns the provider authorization URL for the SPA redirect.
// GET /api/auth/oauth/{provider}?redirect_to=...
func (h *AuthHandler) OAuthSignIn(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	url, err := h.auth.OAuthSignInURL(provider, r.URL.Query().Get("redirect_to"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// GetUser returns the identity behind the current session.
// GET /api/protected/auth/user
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}
	user, err := h.auth.GetUser(token)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Failed to load current user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SignOut revokes the current session.
// POST /api/protected/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}
	if err := h.auth.SignOut(token); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to sign out. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}

// LinkAccount returns the authorization URL that links a social provider to
// the current identity.
// POST /api/protected/auth/link/{provider}
func (h *AuthHandler) LinkAccount(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	url, err := h.auth.LinkSocialAccount(provider, r.URL.Query().Get("redirect_to"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// UnlinkAccount removes a linked social provider after password
// re-authentication. On success the session has been forcibly ended and the
// SPA must redirect to sign-in.
// POST /api/protected/auth/unlink/{provider}
func (h *AuthHandler) UnlinkAccount(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetAccessTokenFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing session token")
		return
	}
	provider := mux.Vars(r)["provider"]

	var req unlinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.UnlinkSocialAccount(token, provider, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordRequired):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrWrongPassword):
			writeJSONError(w, http.StatusUnauthorized, err.Error())
		default:
			writeJSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}
