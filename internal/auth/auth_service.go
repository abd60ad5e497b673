package auth

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	supa "github.com/supabase-community/supabase-go"
)

// User-displayable auth failures. Handlers map these onto HTTP statuses; the
// strings are shown verbatim by the SPA.
var (
	ErrAlreadyRegistered  = errors.New("This email is already registered. Please sign in instead.")
	ErrInvalidCredentials = errors.New("Invalid email or password. Please try again.")
	ErrSignupFailed       = errors.New("Failed to complete signup. Please try again.")
	ErrProfileFailed      = errors.New("Failed to create user profile. Please try again.")
	ErrPasswordRequired   = errors.New("Please enter your password to unlink account")
	ErrWrongPassword      = errors.New("Invalid password. Please verify your password and try again.")
)

// Session is the authenticated session returned to the SPA. The tokens are
// the Supabase-issued JWT pair; every subsequent request carries the access
// token and the auth middleware derives the user id from it.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
}

// User is the current identity as seen by the identity provider, including
// which social providers are linked.
type User struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	FullName        string   `json:"full_name"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
	LinkedProviders []string `json:"linked_providers"`
}

// Service implements the identity operations: password and OAuth sign-in,
// two-phase sign-up, sign-out, and social account link/unlink.
type Service struct {
	client *supa.Client
	admin  gotrue.Client
}

// NewService creates the auth service. client carries the anon key; admin
// carries the service role key and is used only for signup rollback and
// account deletion.
func NewService(client *supa.Client, admin gotrue.Client) *Service {
	return &Service{client: client, admin: admin}
}

// SignUp performs the two dependent writes: create the auth identity, then
// mirror it into a profile row keyed by the same id. If the profile write
// fails the auth identity is rolled back via the admin API; if the rollback
// itself cannot be confirmed a generic failure is surfaced.
func (s *Service) SignUp(email, password, fullName string) (*Session, error) {
	signup, err := s.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"full_name": fullName,
		},
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already registered") {
			return nil, ErrAlreadyRegistered
		}
		log.Printf("AuthService Error: signup failed: %v", err)
		return nil, fmt.Errorf("failed to create user account: %w", err)
	}

	profile := map[string]interface{}{
		"id":        signup.ID.String(),
		"email":     email,
		"full_name": fullName,
	}
	if _, _, err := s.client.From("users").Insert(profile, false, "", "", "").Execute(); err != nil {
		log.Printf("AuthService Error: profile insert failed for %s, rolling back auth identity: %v", signup.ID, err)
		if rbErr := s.admin.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: signup.ID}); rbErr != nil {
			log.Printf("AuthService Error: rollback of auth identity %s failed: %v", signup.ID, rbErr)
			return nil, ErrSignupFailed
		}
		return nil, ErrProfileFailed
	}

	return &Session{
		AccessToken:  signup.AccessToken,
		RefreshToken: signup.RefreshToken,
		UserID:       signup.ID.String(),
		Email:        email,
		FullName:     fullName,
	}, nil
}

// SignIn exchanges email/password for a session.
func (s *Service) SignIn(email, password string) (*Session, error) {
	token, err := s.client.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "invalid login credentials") ||
			strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			return nil, ErrInvalidCredentials
		}
		log.Printf("AuthService Error: sign-in failed: %v", err)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		UserID:       token.User.ID.String(),
		Email:        token.User.Email,
		FullName:     metadataString(token.User.UserMetadata, "full_name"),
	}, nil
}

// OAuthSignInURL returns the provider authorization URL for github, twitter
// or linkedin. The SPA completes the redirect dance; the resulting session
// lands back on its callback route.
func (s *Service) OAuthSignInURL(provider, redirectTo string) (string, error) {
	p, err := providerFromName(provider)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Auth.Authorize(types.AuthorizeRequest{
		Provider: p,
	})
	if err != nil {
		log.Printf("AuthService Error: authorize URL for %s failed: %v", provider, err)
		return "", fmt.Errorf("failed to sign in with %s: %w", provider, err)
	}
	return withRedirect(resp.AuthorizationURL, redirectTo), nil
}

// LinkSocialAccount returns the authorization URL that attaches the provider
// to the currently signed-in identity.
func (s *Service) LinkSocialAccount(provider, redirectTo string) (string, error) {
	url, err := s.OAuthSignInURL(provider, redirectTo)
	if err != nil {
		return "", fmt.Errorf("failed to link %s account: %w", provider, err)
	}
	return url, nil
}

// UnlinkSocialAccount removes a linked provider. It requires re-authentication
// with the account password first, so a stale session cannot strip a recovery
// method. On success the session is forcibly ended; the caller must redirect
// to sign-in.
func (s *Service) UnlinkSocialAccount(token, provider, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	user, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return fmt.Errorf("failed to load current user: %w", err)
	}

	linked := false
	for _, identity := range user.Identities {
		if identity.Provider == provider {
			linked = true
			break
		}
	}
	if !linked {
		return fmt.Errorf("No linked %s account found", provider)
	}

	// Re-authenticate before mutating anything.
	if _, err := s.client.Auth.SignInWithEmailPassword(user.Email, password); err != nil {
		return ErrWrongPassword
	}

	// Re-assert the password credential so the account stays reachable by
	// email/password once the provider is gone.
	if _, err := s.client.Auth.WithToken(token).UpdateUser(types.UpdateUserRequest{
		Email:    user.Email,
		Password: &password,
	}); err != nil {
		log.Printf("AuthService Error: update user during unlink failed: %v", err)
		return fmt.Errorf("failed to unlink %s account: %w", provider, err)
	}

	// Forcibly end the session. The sign-out error is logged but not
	// surfaced: the unlink itself has already happened.
	if err := s.client.Auth.WithToken(token).Logout(); err != nil {
		log.Printf("AuthService Warning: sign-out after unlink failed: %v", err)
	}
	return nil
}

// SignOut revokes the session behind the given access token.
func (s *Service) SignOut(token string) error {
	if err := s.client.Auth.WithToken(token).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// GetUser returns the identity behind the given access token.
func (s *Service) GetUser(token string) (*User, error) {
	resp, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}

	providers := []string{}
	for _, identity := range resp.Identities {
		providers = append(providers, identity.Provider)
	}

	return &User{
		ID:              resp.ID.String(),
		Email:           resp.Email,
		FullName:        metadataString(resp.UserMetadata, "full_name"),
		AvatarURL:       metadataString(resp.UserMetadata, "avatar_url"),
		LinkedProviders: providers,
	}, nil
}

// UpdateUserMetadata patches the auth identity's metadata (display name,
// avatar URL) for the session behind the given token.
func (s *Service) UpdateUserMetadata(token string, data map[string]interface{}) error {
	if _, err := s.client.Auth.WithToken(token).UpdateUser(types.UpdateUserRequest{Data: data}); err != nil {
		return fmt.Errorf("failed to update user metadata: %w", err)
	}
	return nil
}

func providerFromName(name string) (types.Provider, error) {
	switch name {
	case "github":
		return types.ProviderGitHub, nil
	case "twitter":
		return types.ProviderTwitter, nil
	case "linkedin":
		return types.ProviderLinkedin, nil
	}
	return "", fmt.Errorf("unsupported provider: %s", name)
}

// withRedirect appends the SPA callback as a redirect_to query parameter.
// The auth client does not carry it through Authorize, so it is attached to
// the authorization URL here.
func withRedirect(authorizeURL, redirectTo string) string {
	if redirectTo == "" {
		return authorizeURL
	}
	sep := "?"
	if strings.Contains(authorizeURL, "?") {
		sep = "&"
	}
	return authorizeURL + sep + "redirect_to=" + url.QueryEscape(redirectTo)
}

func metadataString(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}
