package graphql

import (
	"context"
	"errors"

	"employee_roster/internal/domain"

	"go.uber.org/zap"
)

const (
	CodeDuplicateIdentity = "DUPLICATE_IDENTITY"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeBadUserInput      = "BAD_USER_INPUT"
	CodeInternal          = "INTERNAL"
)

const (
	msgUsernameTaken      = "Username already exists"
	msgUnknownUsername    = "Invalid username"
	msgWrongPassword      = "Incorrect password"
	msgInvalidCredentials = "Invalid username or password"
	msgUnauthenticated    = "Unauthorized: No user logged in"
	msgForbidden          = "Forbidden: Insufficient permissions"
	msgEmployeeNotFound   = "Employee not found"
	msgInternal           = "internal server error"
)

// resolverError is returned from resolvers; graphql-go copies Extensions
// into the response so clients can match on code and field.
type resolverError struct {
	message string
	code    string
	field   string
}

func (e *resolverError) Error() string {
	return e.message
}

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if e.field != "" {
		ext["field"] = e.field
	}
	return ext
}

func newError(code, message, field string) *resolverError {
	return &resolverError{message: message, code: code, field: field}
}

// toResolverError maps domain errors onto API errors. Anything unexpected is
// logged and hidden behind a generic message.
func (r *Resolver) toResolverError(ctx context.Context, operation string, err error) error {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return newError(CodeBadUserInput, fieldErr.Error(), fieldErr.Field)
	case errors.Is(err, domain.ErrUnauthenticated):
		return newError(CodeUnauthenticated, msgUnauthenticated, "")
	case errors.Is(err, domain.ErrForbidden):
		return newError(CodeForbidden, msgForbidden, "")
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return newError(CodeDuplicateIdentity, msgUsernameTaken, "username")
	case errors.Is(err, domain.ErrNotFound):
		return newError(CodeNotFound, msgEmployeeNotFound, "")
	default:
		r.log.Error("Request failed", zap.String("operation", operation), zap.Error(err))
		return newError(CodeInternal, msgInternal, "")
	}
}

func (r *Resolver) loginError(err error) error {
	switch {
	case r.opts.GenericLoginErrors && (errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredential)):
		return newError(CodeInvalidCredential, msgInvalidCredentials, "")
	case errors.Is(err, domain.ErrNotFound):
		return newError(CodeInvalidCredential, msgUnknownUsername, "username")
	case errors.Is(err, domain.ErrInvalidCredential):
		return newError(CodeInvalidCredential, msgWrongPassword, "password")
	default:
		return nil
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
