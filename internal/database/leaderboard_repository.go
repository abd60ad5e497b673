package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// Row caps. The leaderboard view is read top-100 in its own precomputed
// order; the transaction ledger is read newest-first, latest 50.
const (
	leaderboardLimit  = 100
	transactionsLimit = 50
)

// LeaderboardRepository provides the read-only gamification queries. The
// three fetches are independent and uncoordinated: a stats read and a
// transactions read issued back to back may observe different snapshots if
// the view lags the ledger. That is accepted as eventual consistency.
type LeaderboardRepository interface {
	FetchLeaderboard() ([]models.LeaderboardRow, error)
	FetchUserStats(userID string) (*models.UserStats, error)
	FetchUserTransactions(userID string) ([]models.PointTransaction, error)
}

type leaderboardRepository struct {
	db *sql.DB
}

// NewLeaderboardRepository creates a LeaderboardRepository backed by the
// given database service.
func NewLeaderboardRepository(s *DatabaseService) LeaderboardRepository {
	return &leaderboardRepository{db: s.DB}
}

// FetchLeaderboard returns up to 100 rows of the precomputed leaderboard
// view. Rank is assigned by the view (dense ranking by points); this code
// never recomputes it.
func (r *leaderboardRepository) FetchLeaderboard() ([]models.LeaderboardRow, error) {
	query := `SELECT id, full_name, avatar_url, points, level, rank,
		snippets_count, comments_count, badges, badges_count
		FROM leaderboard LIMIT $1`

	rows, err := r.db.Query(query, leaderboardLimit)
	if err != nil {
		log.Printf("LeaderboardRepository Error: leaderboard query failed: %v", err)
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	var board []models.LeaderboardRow
	for rows.Next() {
		var row models.LeaderboardRow
		var badgesJSON []byte
		if err := rows.Scan(
			&row.ID,
			&row.FullName,
			&row.AvatarURL,
			&row.Points,
			&row.Level,
			&row.Rank,
			&row.SnippetsCount,
			&row.CommentsCount,
			&badgesJSON,
			&row.BadgesCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		row.Badges = []models.Badge{}
		if len(badgesJSON) > 0 {
			if err := json.Unmarshal(badgesJSON, &row.Badges); err != nil {
				return nil, fmt.Errorf("failed to decode badges for user %s: %w", row.ID, err)
			}
		}
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard rows: %w", err)
	}

	log.Printf("LeaderboardRepository Info: fetched %d leaderboard rows", len(board))
	return board, nil
}

// FetchUserStats returns the user's points balance and earned badges. A user
// with no user_points row yet gets the zero balance at level 1 instead of an
// error.
func (r *leaderboardRepository) FetchUserStats(userID string) (*models.UserStats, error) {
	stats := &models.UserStats{Level: 1, Badges: []models.Badge{}}

	err := r.db.QueryRow(
		`SELECT points, level FROM user_points WHERE user_id = $1`,
		userID,
	).Scan(&stats.Points, &stats.Level)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("LeaderboardRepository Error: user_points query failed for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch points for user %s: %w", userID, err)
	}

	rows, err := r.db.Query(
		`SELECT b.id, b.name, b.description, b.image_url
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1`,
		userID,
	)
	if err != nil {
		log.Printf("LeaderboardRepository Error: user_badges query failed for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch badges for user %s: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var badge models.Badge
		if err := rows.Scan(&badge.ID, &badge.Name, &badge.Description, &badge.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan badge row: %w", err)
		}
		stats.Badges = append(stats.Badges, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate badge rows: %w", err)
	}

	return stats, nil
}

// FetchUserTransactions returns the user's latest 50 point ledger entries,
// newest first.
func (r *leaderboardRepository) FetchUserTransactions(userID string) ([]models.PointTransaction, error) {
	rows, err := r.db.Query(
		`SELECT id, amount, action_type, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, transactionsLimit,
	)
	if err != nil {
		log.Printf("LeaderboardRepository Error: point_transactions query failed for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var transactions []models.PointTransaction
	for rows.Next() {
		var tx models.PointTransaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.ActionType, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}
