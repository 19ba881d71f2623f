package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Manager ties a Store to the signed browser token.
type Manager struct {
	store  Store
	signer *Signer
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, signer *Signer, ttl time.Duration) *Manager {
	return &Manager{store: store, signer: signer, ttl: ttl, now: time.Now}
}

// Start saves a new session and returns it together with its signed token.
func (m *Manager) Start(ctx context.Context, backendToken, role, userID string) (Session, string, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		Token:     backendToken,
		Role:      role,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, "", fmt.Errorf("save session: %w", err)
	}
	signed, err := m.signer.Sign(s.ID, s.ExpiresAt)
	if err != nil {
		_ = m.store.Clear(ctx, s.ID)
		return Session{}, "", err
	}
	return s, signed, nil
}

// Resolve maps a signed token back to its stored session.
func (m *Manager) Resolve(ctx context.Context, signed string) (Session, error) {
	id, err := m.signer.Parse(signed)
	if err != nil {
		return Session{}, err
	}
	return m.store.Load(ctx, id)
}

func (m *Manager) End(ctx context.Context, id string) error {
	return m.store.Clear(ctx, id)
}
