package models

// LikeRow is a single row of the like relation as returned by the embedded
// likes(user_id) select. Presence means liked, cardinality is the count.
type LikeRow struct {
	UserID string `json:"user_id"`
}

// CommentRow is the raw comment shape returned by the eager-loading snippet
// query, before materialization into a Comment view model.
type CommentRow struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"created_at"`
	Author    Author    `json:"author"`
	Likes     []LikeRow `json:"likes"`
}

// SnippetRow is the raw snippet shape returned by the eager-loading query:
// the snippet columns plus embedded author, comments (with their authors and
// like-sets) and the snippet's own like-set.
type SnippetRow struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Code        string       `json:"code"`
	Language    string       `json:"language"`
	CreatedAt   string       `json:"created_at"`
	Author      Author       `json:"author"`
	Comments    []CommentRow `json:"comments"`
	Likes       []LikeRow    `json:"likes"`
}

// Comment is the materialized comment view model.
type Comment struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Author    Author   `json:"author"`
	CreatedAt string   `json:"created_at"`
	Likes     int      `json:"likes"`
	LikedBy   []string `json:"liked_by"`
}

// CodeSnippet is the materialized snippet view model served to the SPA.
// Likes always equals len(LikedBy).
type CodeSnippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Author      Author    `json:"author"`
	CreatedAt   string    `json:"created_at"`
	Likes       int       `json:"likes"`
	LikedBy     []string  `json:"liked_by"`
	Comments    []Comment `json:"comments"`
}

// IsLikedBy reports whether the given user has an active like row for the
// snippet. The UI uses this to decide which mutation (like or unlike) to send.
func (s *CodeSnippet) IsLikedBy(userID string) bool {
	for _, id := range s.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
