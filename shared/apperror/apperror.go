// Package apperror defines the error taxonomy shared by the services.
//
// Every failure that is meant to reach a caller is an *Error carrying a Kind, which
// decides the HTTP status, and a stable machine-readable Code. Anything else is
// treated as an internal failure by the responders.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// HTTPStatus returns the status code a Kind is reported with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// New creates an error without an underlying cause.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an error that keeps err as its cause.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BadRequest reports malformed input with the generic BAD_REQUEST code.
func BadRequest(message string) *Error {
	return New(KindBadRequest, CodeBadRequest, message)
}

// NotFound reports a missing resource with the generic NOT_FOUND code.
func NotFound(message string) *Error {
	return New(KindNotFound, CodeNotFound, message)
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return Wrap(KindInternal, CodeInternalServerError, "Something went wrong, Please try again later", err)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal when err is not classified.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
