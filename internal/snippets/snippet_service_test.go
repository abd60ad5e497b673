package snippets

import (
	"net/http"
	"net/http/httptest"
	"testing"

	supa "github.com/supabase-community/supabase-go"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

func sampleRow() models.SnippetRow {
	return models.SnippetRow{
		ID:        "snippet-1",
		Title:     "Binary search",
		Code:      "function search() {}",
		Language:  "javascript",
		CreatedAt: "2025-01-15T10:00:00Z",
		Author:    models.Author{ID: "user-1", FullName: "Alice"},
		Likes: []models.LikeRow{
			{UserID: "user-2"},
			{UserID: "user-3"},
		},
		Comments: []models.CommentRow{
			{
				ID:      "comment-1",
				Content: "Nice one",
				Author:  models.Author{ID: "user-2", FullName: "Bob"},
				Likes:   []models.LikeRow{{UserID: "user-1"}},
			},
		},
	}
}

func TestMaterializeLikeCountMatchesLikeSet(t *testing.T) {
	snippet := Materialize(sampleRow())

	if snippet.Likes != 2 {
		t.Errorf("Expected 2 likes, got %d", snippet.Likes)
	}
	if snippet.Likes != len(snippet.LikedBy) {
		t.Errorf("Expected likes to equal len(liked_by), got %d and %d", snippet.Likes, len(snippet.LikedBy))
	}
	if !snippet.IsLikedBy("user-2") {
		t.Error("Expected user-2 to be in the like-set")
	}
	if snippet.IsLikedBy("user-1") {
		t.Error("Did not expect the author in the like-set")
	}
}

func TestMaterializeComments(t *testing.T) {
	snippet := Materialize(sampleRow())

	if len(snippet.Comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(snippet.Comments))
	}
	comment := snippet.Comments[0]
	if comment.Likes != 1 || len(comment.LikedBy) != 1 {
		t.Errorf("Expected comment like count 1/1, got %d/%d", comment.Likes, len(comment.LikedBy))
	}
	if comment.Author.FullName != "Bob" {
		t.Errorf("Expected comment author Bob, got %s", comment.Author.FullName)
	}
}

func TestLikeRoundTripRestoresLikeSet(t *testing.T) {
	row := sampleRow()
	before := Materialize(row)

	// Like: the backend gains a row for user-4.
	row.Likes = append(row.Likes, models.LikeRow{UserID: "user-4"})
	liked := Materialize(row)
	if !liked.IsLikedBy("user-4") || liked.Likes != before.Likes+1 {
		t.Errorf("Expected user-4 added to the like-set, got %v", liked.LikedBy)
	}

	// Unlike: the row is removed again.
	row.Likes = row.Likes[:len(row.Likes)-1]
	after := Materialize(row)
	if after.IsLikedBy("user-4") || after.Likes != before.Likes {
		t.Errorf("Expected the like-set restored, got %v", after.LikedBy)
	}
}

func TestAddCommentReturnsAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/comments" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			// Representation row: bare table columns only.
			w.Write([]byte(`[{"id":"comment-9","content":"Nice one","created_at":"2025-01-15T10:00:00Z"}]`))
		case http.MethodGet:
			w.Write([]byte(`[{"id":"comment-9","content":"Nice one","created_at":"2025-01-15T10:00:00Z",` +
				`"author":{"id":"user-2","full_name":"Bob"}}]`))
		default:
			t.Errorf("Unexpected method: %s", r.Method)
		}
	}))
	defer server.Close()

	client, err := supa.NewClient(server.URL, "test-key", &supa.ClientOptions{})
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	comment, err := NewService(client).AddComment("snippet-1", "user-2", "Nice one")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if comment.ID != "comment-9" {
		t.Errorf("Expected comment-9, got %s", comment.ID)
	}
	if comment.Author.ID != "user-2" || comment.Author.FullName != "Bob" {
		t.Errorf("Expected the author embedded, got %+v", comment.Author)
	}
	if comment.Likes != 0 || len(comment.LikedBy) != 0 {
		t.Errorf("Expected an empty like-set on a fresh comment, got %d/%v", comment.Likes, comment.LikedBy)
	}
}

func TestMaterializeEmptyRelations(t *testing.T) {
	snippet := Materialize(models.SnippetRow{ID: "snippet-2"})

	if snippet.Likes != 0 {
		t.Errorf("Expected 0 likes, got %d", snippet.Likes)
	}
	if snippet.LikedBy == nil || snippet.Comments == nil {
		t.Error("Expected empty slices, not nil, for missing relations")
	}
	if snippet.IsLikedBy("user-1") {
		t.Error("Did not expect any likes on an empty row")
	}
}
