package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	storage_go "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/codecampus-community/codecampus-backend/internal/auth"
	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// AvatarBucket is the storage bucket holding profile pictures.
const AvatarBucket = "avatars"

// Service manages the local profile row, avatar storage and the admin-side
// account removal.
type Service struct {
	client *supa.Client
	admin  gotrue.Client
	auth   *auth.Service
}

// NewService creates the profile service.
func NewService(client *supa.Client, admin gotrue.Client, authService *auth.Service) *Service {
	return &Service{client: client, admin: admin, auth: authService}
}

// GetProfile returns the profile row for the given user, creating it on
// first sight (OAuth sign-ins reach the app without a profile row).
func (s *Service) GetProfile(userID, email, fullName string) (*models.UserProfile, error) {
	data, _, err := s.client.From("users").
		Select("id,email,full_name,avatar_url", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		log.Printf("ProfileService Error: fetch profile %s failed: %v", userID, err)
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	var rows []models.UserProfile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode profile row: %w", err)
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}

	// First login without a mirrored row: create it now.
	row := map[string]interface{}{
		"id":        userID,
		"email":     email,
		"full_name": fullName,
	}
	if _, _, err := s.client.From("users").Insert(row, false, "", "", "").Execute(); err != nil {
		log.Printf("ProfileService Error: create profile %s failed: %v", userID, err)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &models.UserProfile{ID: userID, Email: email, FullName: fullName}, nil
}

// UpdateFullName renames the user in both the profile row and the auth
// metadata, so the display name survives either read path.
func (s *Service) UpdateFullName(token, userID, fullName string) error {
	if _, _, err := s.client.From("users").
		Update(map[string]interface{}{"full_name": fullName}, "", "").
		Eq("id", userID).
		Execute(); err != nil {
		log.Printf("ProfileService Error: update profile %s failed: %v", userID, err)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if err := s.auth.UpdateUserMetadata(token, map[string]interface{}{"full_name": fullName}); err != nil {
		return err
	}
	return nil
}

// UploadAvatar replaces the user's avatar: the previous object is removed,
// the new one uploaded under a fresh name, and the public URL written to the
// profile row and auth metadata.
func (s *Service) UploadAvatar(token, userID, filename, contentType string, data io.Reader) (string, error) {
	current, _, err := s.client.From("users").
		Select("avatar_url", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to read current avatar: %w", err)
	}
	var rows []struct {
		AvatarURL *string `json:"avatar_url"`
	}
	if err := json.Unmarshal(current, &rows); err != nil {
		return "", fmt.Errorf("failed to decode current avatar: %w", err)
	}
	if len(rows) > 0 && rows[0].AvatarURL != nil && *rows[0].AvatarURL != "" {
		oldName := path.Base(*rows[0].AvatarURL)
		if _, err := s.client.Storage.RemoveFile(AvatarBucket, []string{oldName}); err != nil {
			// A stale object is harmless; the upload still proceeds.
			log.Printf("ProfileService Warning: removing old avatar %s failed: %v", oldName, err)
		}
	}

	ext := strings.ToLower(path.Ext(filename))
	objectName := fmt.Sprintf("%s-%s%s", userID, uuid.New().String(), ext)
	if _, err := s.client.Storage.UploadFile(AvatarBucket, objectName, data, storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		log.Printf("ProfileService Error: avatar upload for %s failed: %v", userID, err)
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	publicURL := s.client.Storage.GetPublicUrl(AvatarBucket, objectName).SignedURL

	if _, _, err := s.client.From("users").
		Update(map[string]interface{}{"avatar_url": publicURL}, "", "").
		Eq("id", userID).
		Execute(); err != nil {
		return "", fmt.Errorf("failed to store avatar URL: %w", err)
	}
	if err := s.auth.UpdateUserMetadata(token, map[string]interface{}{"avatar_url": publicURL}); err != nil {
		return "", err
	}
	return publicURL, nil
}

// DeleteUser removes a user entirely: dependent content first (comments,
// likes, snippets), then the profile row, then the auth identity via the
// admin API. Order matters; the auth identity goes last so a partial failure
// leaves a recoverable account.
func (s *Service) DeleteUser(userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	if _, _, err := s.client.From("comments").Delete("", "").Eq("author_id", userID).Execute(); err != nil {
		return fmt.Errorf("failed to delete user comments: %w", err)
	}
	if _, _, err := s.client.From("likes").Delete("", "").Eq("user_id", userID).Execute(); err != nil {
		return fmt.Errorf("failed to delete user likes: %w", err)
	}
	if _, _, err := s.client.From("code_snippets").Delete("", "").Eq("author_id", userID).Execute(); err != nil {
		return fmt.Errorf("failed to delete user snippets: %w", err)
	}
	if _, _, err := s.client.From("users").Delete("", "").Eq("id", userID).Execute(); err != nil {
		return fmt.Errorf("failed to delete user profile: %w", err)
	}
	if err := s.admin.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: id}); err != nil {
		log.Printf("ProfileService Error: admin delete of %s failed: %v", userID, err)
		return fmt.Errorf("failed to delete auth identity: %w", err)
	}

	log.Printf("ProfileService Info: user %s deleted", userID)
	return nil
}
