// Package errors provides structured error types for mvnresolve.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so callers can tell input validation failures (never retried) from
// transport and fetch failures (retryable) without string matching.
//
// # Error Codes
//
//   - MALFORMED_*: input validation failures, surfaced immediately
//   - NOT_FOUND, NETWORK_ERROR, TIMEOUT, CORRUPT_ARTIFACT: fetch outcomes
//   - RESOLUTION_FAILED: a non-optional dependency could not be resolved
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedRange, "unbalanced brackets in %q", s)
//	if errors.Is(err, errors.ErrCodeMalformedRange) {
//	    // reject input
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the different failure categories.
const (
	// Input validation errors
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"
	ErrCodeMalformedRange      Code = "MALFORMED_RANGE"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"

	// Fetch errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeCorrupt  Code = "CORRUPT_ARTIFACT"

	// Resolution errors
	ErrCodeResolution Code = "RESOLUTION_FAILED"
	ErrCodeInternal   Code = "INTERNAL_ERROR"
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
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Temporary reports whether err describes a condition that may clear up on
// a later attempt. Validation errors are never temporary.
func Temporary(err error) bool {
	switch GetCode(err) {
	case ErrCodeTimeout, ErrCodeNetwork, ErrCodeCorrupt, ErrCodeNotFound:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and its causes without code prefixes.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
