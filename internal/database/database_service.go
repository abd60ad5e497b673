package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DatabaseService owns the direct Postgres connection used for the read-only
// gamification queries (leaderboard view, points, badges, ledger). Social
// content CRUD goes through PostgREST instead; both paths hit the same
// Supabase-hosted database.
type DatabaseService struct {
	DB *sql.DB
}

// NewDatabaseService opens a connection to the database and verifies it with
// a ping before returning.
func NewDatabaseService(databaseURL string) (*DatabaseService, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Printf("DatabaseService Error: sql.Open failed: %v", err)
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("DatabaseService Error: db.Ping failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("DatabaseService Info: connected to database")
	return &DatabaseService{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *DatabaseService) Close() error {
	return s.DB.Close()
}
