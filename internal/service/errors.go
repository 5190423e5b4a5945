package service

import (
	"errors"
)

// Error kinds. Every *Error carries exactly one of them, so callers branch
// with errors.Is(err, service.ErrNotFound) and so on.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrInternal     = errors.New("internal error")
)

// Error is a domain failure with the user-facing message to report.
// Detail, when set, is shown to the client next to Message.
type Error struct {
	Kind    error
	Message string
	Detail  string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string) *Error {
	return newError(ErrValidation, message)
}

func internalError(message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Message: message, Cause: cause}
}

// MessageInternal is reported for store failures whose cause stays private.
const MessageInternal = "Erro interno do servidor"

// AsError extracts the *Error from err. Anything else is wrapped as an
// internal error, keeping the cause for logs.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internalError(MessageInternal, err)
}
