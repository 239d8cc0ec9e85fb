// Package errors provides structured error handling with HTTP status code
// mapping for the presence service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates an unknown route or resource (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeRateLimited indicates the caller exceeded a rate limit (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeInternal indicates a server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error is a structured error with type, message, optional cause, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

// RateLimitedError creates a new rate-limit error (HTTP 429).
func RateLimitedError(message string) *Error {
	return &Error{Type: TypeRateLimited, Message: message}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON envelope sent to clients. Context never leaks
// internal detail; internal errors always get a generic message.
type ErrorResponse struct {
	Error string    `json:"error"`
	Type  ErrorType `json:"type,omitempty"`
}

// ToResponse converts an Error to its client-facing JSON form.
func (e *Error) ToResponse() ErrorResponse {
	message := e.Message
	if e.Type == TypeInternal {
		message = "internal server error"
	}
	return ErrorResponse{Error: message, Type: e.Type}
}

// AsStructuredError converts any error into a structured *Error, wrapping
// unknown errors as internal.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}

	return InternalError("internal server error", err)
}
