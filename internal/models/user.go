package models

// UserProfile is the local profile row mirrored from the auth identity,
// keyed by the same id ("users" table).
type UserProfile struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Author is the embedded author shape eager-loaded with snippets and comments.
type Author struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// GitHubEvent is one entry of a user's recent public GitHub activity, shown on
// the profile page for accounts with a linked GitHub identity.
type GitHubEvent struct {
	Type      string `json:"type"`
	Repo      string `json:"repo"`
	CreatedAt string `json:"created_at"`
}
