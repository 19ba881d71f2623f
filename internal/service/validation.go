package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "parkspotter-admin/internal/errors"
)

var validate = validator.New()

// validationError turns validator output into a 400 listing the offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrBadRequest(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apperrors.ErrBadRequest("invalid input: " + strings.Join(msgs, ", "))
}
