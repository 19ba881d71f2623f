package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/session"
)

const CookieName = "parkspotter_session"

// Resolver turns the signed token presented by the browser into a session.
type Resolver interface {
	Resolve(ctx context.Context, signed string) (session.Session, error)
}

// TokenFromRequest prefers a Bearer header and falls back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionMiddleware rejects requests without a live session and stores the session in the
// request context.
func SessionMiddleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				apperrors.WriteError(w, apperrors.ErrUnauthorized("Unauthorized"))
				return
			}
			s, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				slog.Debug("session rejected", slog.Any("error", err))
				apperrors.WriteError(w, apperrors.ErrUnauthorized("Unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireRole lets through sessions whose role is one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				apperrors.WriteError(w, apperrors.ErrUnauthorized("Unauthorized"))
				return
			}
			if !HasRole(s, roles...) {
				apperrors.WriteError(w, apperrors.ErrForbidden("Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func HasRole(s session.Session, roles ...string) bool {
	for _, role := range roles {
		if strings.EqualFold(s.Role, role) {
			return true
		}
	}
	return false
}
