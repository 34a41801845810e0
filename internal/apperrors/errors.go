// Package apperrors defines the error taxonomy shared by services and
// handlers. Every error that reaches a handler maps to one HTTP status.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	KindAuth       Kind = iota // missing/invalid/expired token -> 401
	KindForbidden              // identity or role mismatch -> 403
	KindNotFound               // unknown user or record -> 404
	KindValidation             // malformed input, preprocessing mismatch -> 400
	KindDependency             // storage/explainability/generation failure -> 500
)

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Auth(msg string, err error) *Error       { return &Error{Kind: KindAuth, Msg: msg, Err: err} }
func Forbidden(msg string) *Error             { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) *Error              { return &Error{Kind: KindNotFound, Msg: msg} }
func Validation(msg string, err error) *Error { return &Error{Kind: KindValidation, Msg: msg, Err: err} }
func Dependency(msg string, err error) *Error { return &Error{Kind: KindDependency, Msg: msg, Err: err} }

// As extracts an *Error from err, or nil when err is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// StatusFor returns the HTTP status for any error, defaulting to 500.
func StatusFor(err error) int {
	if appErr := As(err); appErr != nil {
		return appErr.Status()
	}
	return http.StatusInternalServerError
}
