package errors

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Wrap keeps the cause for logs while only Message reaches the client.
func Wrap(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

// Helpers for common errors
var (
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrForbidden    = func(msg string) *HTTPError { return NewHTTPError(http.StatusForbidden, msg) }
	ErrNotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrBadGateway   = func(msg string, err error) *HTTPError { return Wrap(http.StatusBadGateway, msg, err) }
)

// StatusOf returns the HTTP status for err, 500 when it carries none.
func StatusOf(err error) int {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON body {"error": message}.
func WriteError(w http.ResponseWriter, err error) {
	code := StatusOf(err)
	msg := http.StatusText(code)
	var he *HTTPError
	if stderrors.As(err, &he) {
		msg = he.Message
	}
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", slog.Int("status", code), slog.Any("error", err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
