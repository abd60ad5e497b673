package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// GitHubService fetches recent public activity for profiles with a linked
// GitHub identity.
type GitHubService struct {
	token string
}

// NewGitHubService creates the service. The token is optional; without one
// requests run unauthenticated and may hit rate limits.
func NewGitHubService(token string) *GitHubService {
	return &GitHubService{token: token}
}

// RecentActivity returns up to limit recent public events for a GitHub
// username.
func (s *GitHubService) RecentActivity(ctx context.Context, username string, limit int) ([]models.GitHubEvent, error) {
	if username == "" {
		return nil, fmt.Errorf("github username is required")
	}
	if limit <= 0 || limit > 30 {
		limit = 10
	}

	var httpClient *http.Client
	if s.token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.token}))
	} else {
		log.Println("GitHubService Warning: no GitHub token configured, requests may be rate limited")
	}
	client := github.NewClient(httpClient)

	events, _, err := client.Activity.ListEventsPerformedByUser(ctx, username, true, &github.ListOptions{
		PerPage: limit,
	})
	if err != nil {
		log.Printf("GitHubService Error: listing events for %s failed: %v", username, err)
		return nil, fmt.Errorf("failed to fetch GitHub activity for %s: %w", username, err)
	}

	activity := make([]models.GitHubEvent, 0, len(events))
	for _, event := range events {
		activity = append(activity, models.GitHubEvent{
			Type:      event.GetType(),
			Repo:      event.GetRepo().GetName(),
			CreatedAt: event.GetCreatedAt().Format(time.RFC3339),
		})
	}

	log.Printf("GitHubService Info: fetched %d events for %s", len(activity), username)
	return activity, nil
}
