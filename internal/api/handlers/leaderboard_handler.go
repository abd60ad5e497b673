package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codecampus-community/codecampus-backend/internal/database"
	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// LeaderboardHandler serves the read-only gamification views. The three
// fetches are independent; a stats read and a transactions read may observe
// different snapshots of the same user (eventual consistency, accepted).
type LeaderboardHandler struct {
	repo database.LeaderboardRepository
}

// NewLeaderboardHandler creates the leaderboard handler.
func NewLeaderboardHandler(repo database.LeaderboardRepository) *LeaderboardHandler {
	return &LeaderboardHandler{repo: repo}
}

// GetLeaderboard returns the top 100 rows of the precomputed view.
// GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.repo.FetchLeaderboard()
	if err != nil {
		log.Printf("LeaderboardHandler Error: fetch failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if board == nil {
		board = []models.LeaderboardRow{}
	}
	writeJSON(w, http.StatusOK, board)
}

type userStatsResponse struct {
	models.UserStats
	Progress progress `json:"progress"`
}

type progress struct {
	Current   int `json:"current"`
	Target    int `json:"target"`
	NextLevel int `json:"next_level"`
}

// GetUserStats returns a user's points, level and badges, plus the derived
// within-level progress (points mod 100). Level itself is never recomputed
// here.
// GET /api/protected/users/{id}/stats
func (h *LeaderboardHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	stats, err := h.repo.FetchUserStats(userID)
	if err != nil {
		log.Printf("LeaderboardHandler Error: stats fetch for %s failed: %v", userID, err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	current, target := models.ProgressToNextLevel(stats.Points)
	writeJSON(w, http.StatusOK, userStatsResponse{
		UserStats: *stats,
		Progress: progress{
			Current:   current,
			Target:    target,
			NextLevel: stats.Level + 1,
		},
	})
}

// GetUserTransactions returns the user's latest 50 ledger entries, newest
// first.
// GET /api/protected/users/{id}/transactions
func (h *LeaderboardHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	transactions, err := h.repo.FetchUserTransactions(userID)
	if err != nil {
		log.Printf("LeaderboardHandler Error: transactions fetch for %s failed: %v", userID, err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if transactions == nil {
		transactions = []models.PointTransaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}
