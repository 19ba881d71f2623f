package service

import (
	"errors"
	"fmt"

	"parkspotter-admin/internal/backend"
	apperrors "parkspotter-admin/internal/errors"
)

// backendFailure reports a rejected backend mutation as a 502, naming the backend status
// when there was one.
func backendFailure(msg string, err error) error {
	var se *backend.StatusError
	if errors.As(err, &se) {
		msg = fmt.Sprintf("%s (backend status %d)", msg, se.Code)
	}
	return apperrors.ErrBadGateway(msg, err)
}
