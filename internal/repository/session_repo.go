package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkspotter-admin/internal/session"
)

// SessionRepository is a session.Store backed by Postgres.
type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Load(ctx context.Context, id string) (session.Session, error) {
	var s session.Session
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, token, role, user_id, created_at, expires_at FROM admin_sessions WHERE id = $1 AND expires_at > NOW()`, id).
		Scan(&s.ID, &s.Token, &s.Role, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("error loading session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s session.Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, token, role, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET token = $2, role = $3, user_id = $4, expires_at = $6`,
		s.ID, s.Token, s.Role, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired sessions and returns how many rows went away.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}
