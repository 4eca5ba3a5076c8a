package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// SessionStore keeps operator credentials in Postgres so sessions survive a
// dashboard restart.
type SessionStore struct {
	db *sql.DB
}

// Open connects to Postgres and makes sure the sessions table exists.
func Open(ctx context.Context, dsn string) (*SessionStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Println("Session database connection established.")
	return s, nil
}

func New(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Close() error { return s.db.Close() }

func (s *SessionStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS dashboard_sessions (
			session_id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}
