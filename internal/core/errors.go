package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure for transport mapping
type ErrorKind string

const (
	ErrKindValidation   ErrorKind = "validation"
	ErrKindNotFound     ErrorKind = "not_found"
	ErrKindConflict     ErrorKind = "conflict"
	ErrKindInvalidState ErrorKind = "invalid_state"
	ErrKindInternal     ErrorKind = "internal"
)

// Error is a structured domain error with a kind and a human message.
// The HTTP layer maps kinds to status codes in one place.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validationf builds a validation error (missing/malformed input).
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error (referenced entity absent).
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds a conflict error (uniqueness violation).
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidStatef builds an invalid-state error (illegal transition).
func InvalidStatef(format string, args ...any) *Error {
	return &Error{Kind: ErrKindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Internalf wraps an unexpected failure. The message is logged server-side
// and suppressed from callers in production.
func Internalf(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrKindInternal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind from any error in the chain, defaulting to internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
