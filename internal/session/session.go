package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Session is what the dashboard knows about a signed-in staff member.
// Token is the ParkSpotter backend token forwarded on every backend call.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by id. Load returns ErrNotFound for unknown or expired ids.
type Store interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context, id string) error
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
