package api

import (
	"net/http"
	"time"

	"parkspotter-admin/internal/auth"
	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    res.Signed,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     res.Signed,
		Role:      res.Session.Role,
		UserID:    res.Session.UserID,
		ExpiresAt: res.Session.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := h.service.Logout(r.Context(), sess); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
