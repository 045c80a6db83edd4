// Package errors defines the error taxonomy shared by the licensing client,
// the demo flows and the sandbox server.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors, matched with errors.Is
var (
	// ErrInvalidInput marks requests rejected locally before any network call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConnection marks transport failures talking to the licensing API.
	ErrConnection = errors.New("connection error")
	// ErrInvalidResponse marks responses that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError represents a licensing API response that did not carry a result envelope
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("licensing api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("licensing api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap allows errors.Is(err, ErrInvalidResponse)
func (e *APIError) Unwrap() error {
	return ErrInvalidResponse
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// FieldError reports a single invalid field of a request
type FieldError struct {
	Field string
	Rule  string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s failed %q validation", e.Field, e.Rule)
}

// Unwrap allows errors.Is(err, ErrInvalidInput)
func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target
func As(err error, target any) bool { return errors.As(err, target) }
