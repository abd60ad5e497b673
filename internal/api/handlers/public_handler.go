package handlers

import "net/http"

// HealthHandler reports service liveness.
// GET /api/health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
