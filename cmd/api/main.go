package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/codecampus-community/codecampus-backend/internal/api/handlers"
	"github.com/codecampus-community/codecampus-backend/internal/api/middleware"
	"github.com/codecampus-community/codecampus-backend/internal/assistant"
	"github.com/codecampus-community/codecampus-backend/internal/auth"
	"github.com/codecampus-community/codecampus-backend/internal/config"
	"github.com/codecampus-community/codecampus-backend/internal/database"
	"github.com/codecampus-community/codecampus-backend/internal/execution"
	"github.com/codecampus-community/codecampus-backend/internal/profile"
	"github.com/codecampus-community/codecampus-backend/internal/services"
	"github.com/codecampus-community/codecampus-backend/internal/snippets"
	"github.com/codecampus-community/codecampus-backend/internal/supabase"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, relying on environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDatabaseService(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	supaClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}
	adminAuth := supabase.NewAdminAuthClient(cfg)

	// Services.
	authService := auth.NewService(supaClient, adminAuth)
	profileService := profile.NewService(supaClient, adminAuth, authService)
	snippetService := snippets.NewService(supaClient)
	leaderboardRepo := database.NewLeaderboardRepository(db)
	executionService := execution.NewService(cfg.PistonURL)
	githubService := services.NewGitHubService(cfg.GitHubToken)
	geminiService := assistant.NewGeminiService(cfg.GeminiAPIKey)
	openaiService := assistant.NewOpenAIService(cfg.OpenAIAPIKey)
	explanationService := assistant.NewExplanationService(geminiService)
	sessionManager := assistant.NewSessionManager(geminiService, openaiService)

	// Handlers.
	authHandler := handlers.NewAuthHandler(authService)
	snippetHandler := handlers.NewSnippetHandler(snippetService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardRepo)
	profileHandler := handlers.NewProfileHandler(profileService, authService, githubService)
	adminHandler := handlers.NewAdminHandler(profileService, authService, cfg.AdminEmails)
	toolingHandler := handlers.NewToolingHandler(executionService, explanationService)
	assistantHandler := handlers.NewAssistantHandler(sessionManager, geminiService, openaiService)

	r := mux.NewRouter()

	// Public routes.
	r.HandleFunc("/api/health", handlers.HealthHandler).Methods("GET")
	r.HandleFunc("/api/auth/signup", authHandler.SignUp).Methods("POST")
	r.HandleFunc("/api/auth/signin", authHandler.SignIn).Methods("POST")
	r.HandleFunc("/api/auth/oauth/{provider}", authHandler.OAuthSignIn).Methods("GET")
	r.HandleFunc("/api/snippets", snippetHandler.List).Methods("GET")
	r.HandleFunc("/api/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")
	r.HandleFunc("/api/analyze", toolingHandler.Analyze).Methods("POST")
	r.HandleFunc("/api/execute", toolingHandler.Execute).Methods("POST")
	r.HandleFunc("/api/explain", toolingHandler.Explain).Methods("POST")

	// Protected routes.
	protected := r.PathPrefix("/api/protected").Subrouter()
	protected.Use(middleware.NewAuthMiddleware(cfg.SupabaseJWTSecret))

	protected.HandleFunc("/auth/user", authHandler.GetUser).Methods("GET")
	protected.HandleFunc("/auth/signout", authHandler.SignOut).Methods("POST")
	protected.HandleFunc("/auth/link/{provider}", authHandler.LinkAccount).Methods("POST")
	protected.HandleFunc("/auth/unlink/{provider}", authHandler.UnlinkAccount).Methods("POST")

	protected.HandleFunc("/snippets", snippetHandler.Create).Methods("POST")
	protected.HandleFunc("/snippets/{id}", snippetHandler.Update).Methods("PUT")
	protected.HandleFunc("/snippets/{id}", snippetHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/snippets/{id}/like", snippetHandler.Like).Methods("POST")
	protected.HandleFunc("/snippets/{id}/unlike", snippetHandler.Unlike).Methods("POST")
	protected.HandleFunc("/snippets/{id}/comments", snippetHandler.AddComment).Methods("POST")
	protected.HandleFunc("/comments/{id}", snippetHandler.UpdateComment).Methods("PUT")
	protected.HandleFunc("/comments/{id}", snippetHandler.DeleteComment).Methods("DELETE")
	protected.HandleFunc("/comments/{id}/like", snippetHandler.LikeComment).Methods("POST")
	protected.HandleFunc("/comments/{id}/unlike", snippetHandler.UnlikeComment).Methods("POST")

	protected.HandleFunc("/users/{id}/stats", leaderboardHandler.GetUserStats).Methods("GET")
	protected.HandleFunc("/users/{id}/transactions", leaderboardHandler.GetUserTransactions).Methods("GET")

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/profile/avatar", profileHandler.UploadAvatar).Methods("POST")
	protected.HandleFunc("/profile/github", profileHandler.GitHubActivity).Methods("GET")

	protected.HandleFunc("/assistant/ws", assistantHandler.ServeWS).Methods("GET")
	protected.HandleFunc("/assistant/chat", assistantHandler.Chat).Methods("POST")

	protected.HandleFunc("/admin/users/{id}", adminHandler.DeleteUser).Methods("DELETE")

	handler := middleware.CORSHandler(cfg.AllowedOrigins)(r)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
