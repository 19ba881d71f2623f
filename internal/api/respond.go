package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	apperrors "parkspotter-admin/internal/errors"
	"parkspotter-admin/internal/listing"
	"parkspotter-admin/internal/session"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", slog.Any("error", err))
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.ErrBadRequest("Invalid request body")
	}
	return nil
}

// currentSession is only called behind the session middleware.
func currentSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		apperrors.WriteError(w, apperrors.ErrUnauthorized("Unauthorized"))
	}
	return s, ok
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrBadRequest("Invalid ID")
	}
	return id, nil
}

// listInput reads q, order and page. Parameters that are absent leave the stored state alone.
func listInput(r *http.Request) (listing.Input, error) {
	var in listing.Input
	query := r.URL.Query()
	if vals, ok := query["q"]; ok {
		q := strings.TrimSpace(vals[0])
		in.Query = &q
	}
	if raw := query.Get("order"); raw != "" {
		o, ok := listing.ParseOrder(raw)
		if !ok {
			return in, apperrors.ErrBadRequest("order must be asc or desc")
		}
		in.Order = &o
	}
	if raw := query.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return in, apperrors.ErrBadRequest("page must be a number")
		}
		in.Page = &p
	}
	return in, nil
}
