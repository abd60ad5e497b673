package supabase

import (
	"fmt"

	"github.com/supabase-community/gotrue-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/codecampus-community/codecampus-backend/internal/config"
)

// NewClient builds the shared Supabase client (PostgREST tables, gotrue auth
// and storage buckets) using the anon key. Row-level security on the hosted
// side is the authorization boundary for table access.
func NewClient(cfg *config.Config) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
}

// NewAdminAuthClient builds a gotrue client authenticated with the service
// role key. Only the admin operations (user deletion, signup rollback) use
// it; everything else runs with the caller's own session token.
func NewAdminAuthClient(cfg *config.Config) gotrue.Client {
	return gotrue.New("", cfg.SupabaseServiceKey).
		WithCustomGoTrueURL(cfg.SupabaseURL + "/auth/v1").
		WithToken(cfg.SupabaseServiceKey)
}
