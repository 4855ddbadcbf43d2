// Package apierrors defines the coded errors that make up the external API
// contract. Codes are stable strings; route-facing code translates them into
// (status, code) pairs and must never change their meaning across versions.
package apierrors

import (
	"errors"
	"net/http"
)

// Code identifies a failure category independent of transport. The string
// values are surfaced verbatim to API clients inside the error envelope.
type Code string

const (
	CodeMismatchedPasswords Code = "mismatched_passwords"
	CodeUnavailableUsername Code = "unavailable_username"
	CodeWrongCredentials    Code = "wrong_credentials"
	CodeInvalidAccessToken  Code = "invalid_access_token"
	CodeInvalidRefreshToken Code = "invalid_refresh_token"
	CodeInvalidIPAddress    Code = "invalid_ip_address"
	CodeUnavailableLabel    Code = "unavailable_label"
	CodeNonexistentIP       Code = "nonexistent_ip_address"
	CodeForbiddenAction     Code = "forbidden_action"
	CodeInvalidRequest      Code = "invalid_request"
	CodeInternal            Code = "internal_error"
)

// HTTPStatus maps an error code to the HTTP status the API surfaces it with.
// wrong_credentials intentionally maps to 404 rather than 401; the code, not
// the status, is the contract clients branch on.
func HTTPStatus(code Code) int {
	switch code {
	case CodeMismatchedPasswords, CodeInvalidIPAddress, CodeInvalidRequest:
		return http.StatusUnprocessableEntity
	case CodeUnavailableUsername, CodeUnavailableLabel:
		return http.StatusConflict
	case CodeWrongCredentials, CodeNonexistentIP:
		return http.StatusNotFound
	case CodeInvalidAccessToken, CodeInvalidRefreshToken:
		return http.StatusUnauthorized
	case CodeForbiddenAction:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and shared by the service, store, and HTTP layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so callers can use errors.Is with a bare
// apierrors.New(code, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a coded error with the given message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a coded error wrapping an existing one. If the wrapped error
// already carries a code, that code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
