// Package apperr defines the error values exchanged between the
// service layer and HTTP handlers.  Services act as a sanitization
// boundary: internal failures are collapsed into one of these values
// with a fixed user-facing message, and handlers map the code
// straight to the HTTP status.
package apperr

import "net/http"

// Error pairs an HTTP status code with a user-facing message.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with an arbitrary status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadRequest covers validation failures, duplicate resources and the
// daily creation quota.
func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }

// Unauthorized covers missing or invalid credentials and every
// token-verification failure, deliberately without distinguishing
// the internal cause.
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }

// NotFound covers absent resources, including resources owned by a
// different user.
func NotFound(message string) *Error { return New(http.StatusNotFound, message) }
