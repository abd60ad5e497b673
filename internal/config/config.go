package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all environment-driven settings for the API server.
type Config struct {
	Port string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	// Direct Postgres connection used for the read-only leaderboard queries.
	DatabaseURL string

	PistonURL    string
	GeminiAPIKey string
	OpenAIAPIKey string
	GitHubToken  string

	AllowedOrigins []string
	AdminEmails    []string
}

// Load reads the configuration from environment variables. The .env file (if
// any) is loaded by main before this is called.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               os.Getenv("PORT"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseJWTSecret:  os.Getenv("SUPABASE_JWT_SECRET"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		PistonURL:          os.Getenv("PISTON_URL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.PistonURL == "" {
		cfg.PistonURL = "https://emkc.org/api/v2/piston/execute"
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL environment variable is not set")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY environment variable is not set")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	cfg.AllowedOrigins = splitAndTrim(os.Getenv("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}
	cfg.AdminEmails = splitAndTrim(os.Getenv("ADMIN_EMAILS"))

	return cfg, nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
