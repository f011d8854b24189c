package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Services return these (usually wrapped) and handlers map
// them to HTTP status codes; nothing below the handler layer knows about HTTP.
var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrDuplicateApplication = errors.New("application already exists for this job")
	ErrAnalysisFailed       = errors.New("resume analysis failed")
)

// Validation error types, used as the Type field of ValidationError.
var (
	ErrRequired     = errors.New("required")
	ErrInvalidField = errors.New("invalid field")
	ErrMaxLength    = errors.New("max length exceeded")
	ErrUnsafeHTML   = errors.New("unsafe html content")
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Type
}

func NewValidationError(field, message string, errType error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Type: errType}
}

type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// IsValidation reports whether err is a validation failure of either shape.
func IsValidation(err error) bool {
	var single *ValidationError
	var multi ValidationErrors
	return errors.As(err, &single) || errors.As(err, &multi)
}
