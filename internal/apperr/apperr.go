// Package apperr defines the error kinds the ledger core returns.
//
// Every error built here wraps one of the sentinel kinds, so callers classify
// with errors.Is and still get a descriptive message from Error().
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced settlement, carrier pay or carrier does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the requested transition is illegal from the current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict means a concurrent write collided; the caller may retry.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input was rejected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied means the caller's role may not perform the operation.
	ErrPermissionDenied = errors.New("permission denied")
)

// Error is a classified ledger error.
type Error struct {
	kind error
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.err != nil {
		return []error{e.kind, e.err}
	}
	return []error{e.kind}
}

// Kind returns the sentinel this error is classified as.
func (e *Error) Kind() error {
	return e.kind
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newf(ErrNotFound, format, args...)
}

func InvalidState(format string, args ...any) error {
	return newf(ErrInvalidState, format, args...)
}

func Conflict(format string, args ...any) error {
	return newf(ErrConflict, format, args...)
}

func Validation(format string, args ...any) error {
	return newf(ErrValidation, format, args...)
}

func PermissionDenied(format string, args ...any) error {
	return newf(ErrPermissionDenied, format, args...)
}

// WrapConflict classifies a driver error (unique violation, serialization
// failure) as a conflict while keeping the cause.
func WrapConflict(err error, format string, args ...any) error {
	e := newf(ErrConflict, format, args...)
	e.err = err
	return e
}

// KindOf returns the sentinel kind of err, or nil if err is unclassified.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidState, ErrConflict, ErrValidation, ErrPermissionDenied} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
