package models

// PointsPerLevel is the server-side leveling rule: one level per 100
// cumulative points. The server computes and stores level; the client side of
// this API only re-derives within-level progress from it.
const PointsPerLevel = 100

// Badge is a static catalog entity awarded to users by server-side triggers.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// PointTransaction is an immutable, append-only ledger entry. This API only
// reads them, newest first.
type PointTransaction struct {
	ID         string `json:"id"`
	Amount     int    `json:"amount"`
	ActionType string `json:"action_type"`
	CreatedAt  string `json:"created_at"`
}

// PointsBalance is the per-user points/level pair from the user_points table.
// It is mutated exclusively by server-side triggers.
type PointsBalance struct {
	Points int `json:"points"`
	Level  int `json:"level"`
}

// UserStats bundles the three per-user gamification reads shown on the
// profile card.
type UserStats struct {
	Points int     `json:"points"`
	Level  int     `json:"level"`
	Badges []Badge `json:"badges"`
}

// LeaderboardRow is a denormalized per-user snapshot from the precomputed
// leaderboard view. Rank is assigned by the backend.
type LeaderboardRow struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	AvatarURL     *string `json:"avatar_url"`
	Points        int     `json:"points"`
	Level         int     `json:"level"`
	Rank          int     `json:"rank"`
	SnippetsCount int     `json:"snippets_count"`
	CommentsCount int     `json:"comments_count"`
	Badges        []Badge `json:"badges"`
	BadgesCount   int     `json:"badges_count"`
}

// ProgressToNextLevel derives the within-level progress for a points total:
// current progress out of PointsPerLevel. 250 points renders as 50/100.
func ProgressToNextLevel(points int) (current, target int) {
	if points < 0 {
		points = 0
	}
	return points % PointsPerLevel, PointsPerLevel
}
