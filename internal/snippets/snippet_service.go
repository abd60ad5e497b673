package snippets

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// snippetSelect eager-loads the whole aggregate in one query: the snippet
// columns, its author, its comments (each with author and like-set) and the
// snippet's own like-set.
const snippetSelect = `*,author:users(id,full_name,avatar_url),` +
	`comments(id,content,created_at,author:users(id,full_name,avatar_url),likes(user_id)),` +
	`likes(user_id)`

// commentSelect returns a freshly written comment with its author embedded.
const commentSelect = `*,author:users(id,full_name,avatar_url)`

// CreateSnippetInput is the author-provided part of a new snippet.
type CreateSnippetInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Language    string `json:"language"`
}

// UpdateSnippetInput is an author-partial patch; nil fields are left alone.
type UpdateSnippetInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Code        *string `json:"code"`
	Language    *string `json:"language"`
}

// Service is the snippet repository facade: CRUD over code snippets,
// comments and like relations via PostgREST. Authorship of updates and
// deletes is enforced server-side by row-level security, not here.
type Service struct {
	client *supa.Client
}

// NewService creates the snippet facade on the shared Supabase client.
func NewService(client *supa.Client) *Service {
	return &Service{client: client}
}

// FetchAll returns every snippet, newest first, materialized into view
// models. No pagination; a full scan per fetch is accepted at this scale.
func (s *Service) FetchAll() ([]models.CodeSnippet, error) {
	data, _, err := s.client.From("code_snippets").
		Select(snippetSelect, "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		log.Printf("SnippetService Error: fetch snippets failed: %v", err)
		return nil, fmt.Errorf("failed to fetch snippets: %w", err)
	}

	var rows []models.SnippetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode snippet rows: %w", err)
	}

	snippets := make([]models.CodeSnippet, 0, len(rows))
	for _, row := range rows {
		snippets = append(snippets, Materialize(row))
	}
	return snippets, nil
}

// Create inserts a snippet owned by authorID and returns the stored row.
func (s *Service) Create(authorID string, input CreateSnippetInput) (*models.SnippetRow, error) {
	row := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"code":        input.Code,
		"language":    input.Language,
		"author_id":   authorID,
	}
	data, _, err := s.client.From("code_snippets").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		log.Printf("SnippetService Error: create snippet failed: %v", err)
		return nil, fmt.Errorf("failed to create snippet: %w", err)
	}

	var created []models.SnippetRow
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created snippet: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create snippet returned no row")
	}
	return &created[0], nil
}

// Update applies an author-partial patch to a snippet.
func (s *Service) Update(snippetID string, input UpdateSnippetInput) error {
	patch := map[string]interface{}{}
	if input.Title != nil {
		patch["title"] = *input.Title
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.Code != nil {
		patch["code"] = *input.Code
	}
	if input.Language != nil {
		patch["language"] = *input.Language
	}
	if len(patch) == 0 {
		return nil
	}

	if _, _, err := s.client.From("code_snippets").
		Update(patch, "", "").
		Eq("id", snippetID).
		Execute(); err != nil {
		log.Printf("SnippetService Error: update snippet %s failed: %v", snippetID, err)
		return fmt.Errorf("failed to update snippet: %w", err)
	}
	return nil
}

// Delete removes a snippet. Cascading deletion of dependent comments and
// likes is enforced server-side.
func (s *Service) Delete(snippetID string) error {
	if _, _, err := s.client.From("code_snippets").
		Delete("", "").
		Eq("id", snippetID).
		Execute(); err != nil {
		log.Printf("SnippetService Error: delete snippet %s failed: %v", snippetID, err)
		return fmt.Errorf("failed to delete snippet: %w", err)
	}
	return nil
}

// Like inserts the (snippet_id, user_id) like row. A double-click race can
// produce a duplicate-key failure from the backend; it is surfaced as-is
// rather than silently reconciled.
func (s *Service) Like(snippetID, userID string) error {
	row := map[string]interface{}{
		"snippet_id": snippetID,
		"user_id":    userID,
	}
	if _, _, err := s.client.From("likes").Insert(row, false, "", "", "").Execute(); err != nil {
		log.Printf("SnippetService Error: like snippet %s by %s failed: %v", snippetID, userID, err)
		return fmt.Errorf("failed to like snippet: %w", err)
	}
	return nil
}

// Unlike deletes the (snippet_id, user_id) like row.
func (s *Service) Unlike(snippetID, userID string) error {
	if _, _, err := s.client.From("likes").
		Delete("", "").
		Match(map[string]string{"snippet_id": snippetID, "user_id": userID}).
		Execute(); err != nil {
		log.Printf("SnippetService Error: unlike snippet %s by %s failed: %v", snippetID, userID, err)
		return fmt.Errorf("failed to unlike snippet: %w", err)
	}
	return nil
}

// AddComment writes a comment on a snippet and returns it materialized with
// its author, starting with an empty like-set.
func (s *Service) AddComment(snippetID, authorID, content string) (*models.Comment, error) {
	row := map[string]interface{}{
		"snippet_id": snippetID,
		"content":    content,
		"author_id":  authorID,
	}
	data, _, err := s.client.From("comments").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		log.Printf("SnippetService Error: add comment on %s failed: %v", snippetID, err)
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	var created []models.CommentRow
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created comment: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("add comment returned no row")
	}

	// The representation row carries only the bare table columns; re-select
	// to embed the author.
	data, _, err = s.client.From("comments").
		Select(commentSelect, "", false).
		Eq("id", created[0].ID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created comment: %w", err)
	}
	var rows []models.CommentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode created comment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("created comment not found")
	}
	comment := materializeComment(rows[0])
	return &comment, nil
}

// UpdateComment replaces a comment's content.
func (s *Service) UpdateComment(commentID, content string) error {
	if _, _, err := s.client.From("comments").
		Update(map[string]interface{}{"content": content}, "", "").
		Eq("id", commentID).
		Execute(); err != nil {
		log.Printf("SnippetService Error: update comment %s failed: %v", commentID, err)
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(commentID string) error {
	if _, _, err := s.client.From("comments").
		Delete("", "").
		Eq("id", commentID).
		Execute(); err != nil {
		log.Printf("SnippetService Error: delete comment %s failed: %v", commentID, err)
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// LikeComment inserts the (comment_id, user_id) like row.
func (s *Service) LikeComment(commentID, userID string) error {
	row := map[string]interface{}{
		"comment_id": commentID,
		"user_id":    userID,
	}
	if _, _, err := s.client.From("likes").Insert(row, false, "", "", "").Execute(); err != nil {
		log.Printf("SnippetService Error: like comment %s by %s failed: %v", commentID, userID, err)
		return fmt.Errorf("failed to like comment: %w", err)
	}
	return nil
}

// UnlikeComment deletes the (comment_id, user_id) like row.
func (s *Service) UnlikeComment(commentID, userID string) error {
	if _, _, err := s.client.From("likes").
		Delete("", "").
		Match(map[string]string{"comment_id": commentID, "user_id": userID}).
		Execute(); err != nil {
		log.Printf("SnippetService Error: unlike comment %s by %s failed: %v", commentID, userID, err)
		return fmt.Errorf("failed to unlike comment: %w", err)
	}
	return nil
}

// Materialize converts a raw eager-loaded row into the view model served to
// the SPA. The like count is always the cardinality of the like-set.
func Materialize(row models.SnippetRow) models.CodeSnippet {
	snippet := models.CodeSnippet{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Code:        row.Code,
		Language:    row.Language,
		Author:      row.Author,
		CreatedAt:   row.CreatedAt,
		Likes:       len(row.Likes),
		LikedBy:     likedBy(row.Likes),
		Comments:    make([]models.Comment, 0, len(row.Comments)),
	}
	for _, c := range row.Comments {
		snippet.Comments = append(snippet.Comments, materializeComment(c))
	}
	return snippet
}

func materializeComment(row models.CommentRow) models.Comment {
	return models.Comment{
		ID:        row.ID,
		Content:   row.Content,
		Author:    row.Author,
		CreatedAt: row.CreatedAt,
		Likes:     len(row.Likes),
		LikedBy:   likedBy(row.Likes),
	}
}

func likedBy(likes []models.LikeRow) []string {
	ids := make([]string, 0, len(likes))
	for _, like := range likes {
		ids = append(ids, like.UserID)
	}
	return ids
}
