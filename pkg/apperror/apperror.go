// Package apperror carries the error taxonomy shared by the API server and the
// digest client: validation, conflict and transport failures are distinguished
// by Kind so that callers can decide what to surface.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindNetwork      Kind = "network"
	KindInternal     Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status observed by a client, zero on the server side.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrNetwork    = &Error{Kind: KindNetwork}
)

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Network(err error) *Error {
	msg := "network error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

// Wrap attaches a kind to an existing error keeping it reachable through Unwrap.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus is the response status used by the server for a kind.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindFromStatus classifies an HTTP response status observed by a client.
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusConflict, status == http.StatusPreconditionFailed, status == http.StatusGone:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	default:
		return KindNetwork
	}
}
