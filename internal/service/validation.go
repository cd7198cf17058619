package service

import (
	"errors"
	"strings"

	"employee_roster/internal/domain"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validationError turns the first failed field into a domain.FieldError.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.StructField())
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		reason = "must not be empty"
	case "oneof":
		reason = `must be "admin" or "employee"`
	default:
		reason = "is invalid"
	}
	return &domain.FieldError{Field: field, Reason: reason}
}
