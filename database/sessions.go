package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (s *SessionStore) Load(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT token FROM dashboard_sessions WHERE session_id = $1`

	var token string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (s *SessionStore) Save(ctx context.Context, key, token string) error {
	query := `
    INSERT INTO dashboard_sessions (session_id, token)
    VALUES ($1, $2)
    ON CONFLICT (session_id) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query, key, token)
	return err
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM dashboard_sessions WHERE session_id = $1`
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

// Purge removes sessions not written for longer than maxAge.
func (s *SessionStore) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `DELETE FROM dashboard_sessions WHERE updated_at < $1`
	res, err := s.db.ExecContext(ctx, query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
