// Package errors provides structured error types for rocktower.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - NOT_FOUND / FILE_NOT_FOUND: Missing resources
//   - NETWORK_ERROR / TIMEOUT: Cache and history backends
//   - INVARIANT_VIOLATION / OVERFLOW / INTERNAL_ERROR: Simulation bugs
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyPattern, "pattern has no jets")
//	if errors.Is(err, errors.ErrCodeEmptyPattern) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "redis get %s", key)
//
// Invariant violations inside the simulation are programming errors. They
// are raised with [Invariant], which panics with an *Error carrying
// [ErrCodeInvariant]; [Recover] turns such a panic back into an error at
// the pipeline boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeEmptyPattern        Code = "EMPTY_PATTERN"
	ErrCodeInvalidRockCount    Code = "INVALID_ROCK_COUNT"
	ErrCodeInvalidMode         Code = "INVALID_MODE"
	ErrCodeInvalidSurfaceDepth Code = "INVALID_SURFACE_DEPTH"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Simulation errors
	ErrCodeInvariant Code = "INVARIANT_VIOLATION"
	ErrCodeOverflow  Code = "OVERFLOW"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Invariant panics with an ErrCodeInvariant error. It is reserved for
// conditions that can only arise from a bug, never from user input.
func Invariant(format string, args ...any) {
	panic(New(ErrCodeInvariant, format, args...))
}

// Recover converts a recovered panic value into an error. It must be called
// from a deferred function with the result of recover(). Panics that are not
// *Error values are wrapped as ErrCodeInternal.
//
//	defer func() { err = errors.Recover(recover(), err) }()
func Recover(r any, err error) error {
	if r == nil {
		return err
	}
	if e, ok := r.(*Error); ok {
		return e
	}
	if e, ok := r.(error); ok {
		return Wrap(ErrCodeInternal, e, "unexpected panic")
	}
	return New(ErrCodeInternal, "unexpected panic: %v", r)
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeEmptyPattern, ErrCodeInvalidRockCount,
		ErrCodeInvalidMode, ErrCodeInvalidSurfaceDepth:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeOverflow:
		return http.StatusUnprocessableEntity
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
