package service

import (
	"context"
	"log/slog"
	"time"

	"parkspotter-admin/internal/derive"
	"parkspotter-admin/internal/entities"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/session"
)

const notifyTimeout = 30 * time.Second

// ActivationService toggles a user's active flag on the backend and mirrors the change locally.
type ActivationService struct {
	backend Backend
	res     *Resources
	sender  *SenderService
}

func NewActivationService(b Backend, res *Resources, sender *SenderService) *ActivationService {
	return &ActivationService{backend: b, res: res, sender: sender}
}

// SetActive flips the flag on the backend first. Only after the backend accepts it is the
// session's cached user list updated; a rejected call leaves it untouched and returns a 502.
func (s *ActivationService) SetActive(ctx context.Context, sess session.Session, userID int, active bool) (entities.User, error) {
	if userID <= 0 {
		return entities.User{}, apperrors.ErrBadRequest("invalid user id")
	}
	if err := s.backend.SetUserActive(ctx, sess.Token, userID, active); err != nil {
		return entities.User{}, backendFailure("backend rejected the activation change", err)
	}

	var updated entities.User
	s.res.Users.Update(sess.ID, func(in []entities.User) []entities.User {
		out := SetUserActive(in, userID, active)
		for _, u := range out {
			if u.ID == userID {
				updated = u
			}
		}
		return out
	})
	if updated.ID == 0 {
		updated = entities.User{ID: userID, IsActive: active}
	}

	if s.sender != nil {
		customers := derive.NewLookup(s.res.Customers.Current(sess.ID).Value, func(c entities.Customer) int { return c.ID }, entities.Customer{})
		mobile := customers.Get(userID).MobileNo
		u := updated
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			s.sender.SendActivationChange(nctx, u, mobile, active)
		}()
	}
	slog.Info("user activation changed", slog.Int("user_id", userID), slog.Bool("active", active), slog.String("by", sess.UserID))
	return updated, nil
}

// SetUserActive returns a copy of users with the flag of id set to active.
func SetUserActive(users []entities.User, id int, active bool) []entities.User {
	out := make([]entities.User, len(users))
	copy(out, users)
	for i := range out {
		if out[i].ID == id {
			out[i].IsActive = active
		}
	}
	return out
}
