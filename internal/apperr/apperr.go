// Package apperr defines the typed error taxonomy shared by the stores, the
// services and the HTTP surface.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a failure for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindBadRequest   Kind = "bad_request"
	KindValidation   Kind = "validation"
	KindDuplicateKey Kind = "duplicate_key"
	KindNotFound     Kind = "not_found"
	KindStoreWrite   Kind = "store_write"
	KindStoreRead    Kind = "store_read"
	KindStoreDelete  Kind = "store_delete"
)

// Sentinels for errors.Is checks. Any *Error with the same Kind matches.
var (
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrDuplicateKey = &Error{Kind: KindDuplicateKey}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrStoreWrite   = &Error{Kind: KindStoreWrite}
	ErrStoreRead    = &Error{Kind: KindStoreRead}
	ErrStoreDelete  = &Error{Kind: KindStoreDelete}
)

// Violation is a single failed constraint on one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application failure.
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation builds a validation error from the collected violations. The
// message lists every violation so callers can surface it verbatim.
func Validation(violations ...Violation) *Error {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return &Error{
		Kind:       KindValidation,
		Message:    "validation failed: " + strings.Join(parts, ", "),
		Violations: violations,
	}
}

// KindOf returns the kind of err, or KindUnknown for errors outside the
// taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
