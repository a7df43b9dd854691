// Package apperror defines the error kinds shared by services and handlers.
// Every error that reaches a client is mapped from one of these kinds.
package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Error is a classified error with a client-facing message.
type Error struct {
	Kind    error
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New returns an Error of the given kind.
func New(kind error, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

func Validation(message string, details ...string) *Error {
	return New(ErrValidation, message, details...)
}

func NotFound(message string) *Error {
	return New(ErrNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(ErrUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(ErrForbidden, message)
}

func Conflict(message string) *Error {
	return New(ErrConflict, message)
}

// StatusCode maps err to an HTTP status. Unclassified errors are internal.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
