// Package errs holds the error taxonomy shared by services and the HTTP layer.
package errs

import (
	"errors"
	"strings"
)

// Sentinels mapped to HTTP status codes at the request boundary.
var (
	// ErrValidation indicates malformed or missing request fields.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness violation (username or email taken).
	ErrConflict = errors.New("already exists")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates a password mismatch at login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates a missing, invalid, expired or revoked token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates an authenticated identity outside the allowed roles.
	ErrForbidden = errors.New("forbidden")

	// ErrInternal indicates an unexpected persistence or hashing failure.
	ErrInternal = errors.New("internal error")
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level messages and unwraps to ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

// Invalid builds a ValidationError for one field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
