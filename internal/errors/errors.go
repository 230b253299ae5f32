// Package errors defines custom error types for better error handling and debugging.
// StreamError provides context-aware error reporting with type classification,
// which the debrid retry policy uses to decide whether a failure is worth retrying.
package errors

import (
	"errors"
	"fmt"
)

// StreamError represents errors that occur during stream processing
type StreamError struct {
	Type    string
	Message string
	Cause   error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeValidation  = "VALIDATION"
	ErrorTypeTransient   = "TRANSIENT"
	ErrorTypeRateLimited = "RATE_LIMITED"
	ErrorTypeAuth        = "AUTH"
	ErrorTypeNotFound    = "NOT_FOUND"
	ErrorTypeParse       = "PARSE_FAILURE"
)

// NewStreamError creates a new StreamError
func NewStreamError(errorType, message string, cause error) *StreamError {
	return &StreamError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError marks input rejected before any network call.
func NewValidationError(message string) *StreamError {
	return NewStreamError(ErrorTypeValidation, message, nil)
}

// NewTransientError marks a timeout, connection failure or 5xx response.
func NewTransientError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeTransient, message, cause)
}

// NewRateLimitedError marks a 429 response.
func NewRateLimitedError(message string) *StreamError {
	return NewStreamError(ErrorTypeRateLimited, message, nil)
}

// NewAuthError marks a 401/403 response. Never retried.
func NewAuthError(message string) *StreamError {
	return NewStreamError(ErrorTypeAuth, message, nil)
}

// NewNotFoundError marks an empty result, not a failure.
func NewNotFoundError(message string) *StreamError {
	return NewStreamError(ErrorTypeNotFound, message, nil)
}

// NewParseError marks a single adapter or candidate that failed to parse.
func NewParseError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeParse, message, cause)
}

// IsRetryable reports whether the error is transient or rate-limited,
// the only classes the retry policy acts on.
func IsRetryable(err error) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeTransient || se.Type == ErrorTypeRateLimited
	}
	return false
}

// IsAuth reports whether the error is an authentication/permission failure.
func IsAuth(err error) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeAuth
	}
	return false
}

// IsValidation reports whether the error is an input validation failure.
func IsValidation(err error) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Type == ErrorTypeValidation
	}
	return false
}
