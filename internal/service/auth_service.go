package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"parkspotter-admin/internal/backend"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/session"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginResult struct {
	Session session.Session
	Signed  string
}

type AuthService struct {
	backend Backend
	manager *session.Manager
	views   *listing.ViewStore
	res     *Resources
}

func NewAuthService(b Backend, m *session.Manager, views *listing.ViewStore, res *Resources) *AuthService {
	return &AuthService{backend: b, manager: m, views: views, res: res}
}

// Login authenticates against the ParkSpotter backend and opens a dashboard session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(req); err != nil {
		return LoginResult{}, validationError(err)
	}

	res, err := s.backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
			return LoginResult{}, apperrors.ErrUnauthorized("Invalid credentials")
		}
		return LoginResult{}, apperrors.ErrBadGateway("login service unavailable", err)
	}

	role := strings.ToLower(res.Role)
	if role == "" {
		role = session.RoleStaff
	}
	sess, signed, err := s.manager.Start(ctx, res.Token, role, strconv.Itoa(res.UserID))
	if err != nil {
		return LoginResult{}, apperrors.Wrap(http.StatusInternalServerError, "could not start session", err)
	}
	slog.Info("staff signed in", slog.String("user_id", sess.UserID), slog.String("role", sess.Role))
	return LoginResult{Session: sess, Signed: signed}, nil
}

// Logout ends the dashboard session even when the backend logout call fails.
func (s *AuthService) Logout(ctx context.Context, sess session.Session) error {
	if err := s.backend.Logout(ctx, sess.Token); err != nil {
		slog.Warn("backend logout failed", slog.String("session", sess.ID), slog.Any("error", err))
	}
	s.views.Drop(sess.ID)
	if s.res != nil {
		s.res.Forget(sess.ID)
	}
	if err := s.manager.End(ctx, sess.ID); err != nil {
		return apperrors.Wrap(http.StatusInternalServerError, "could not end session", err)
	}
	return nil
}
