// Package errors provides structured error types for transtats.
//
// Error codes separate the two failure tiers the tool distinguishes:
// startup validation failures (missing dependencies, bad input files) that
// terminate the process, and per-package failures (download or stats-tool
// errors) that only mark one report section as failed.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPackage, "invalid package name: %s", name)
//	if errors.HasCode(err, errors.ErrCodeInvalidPackage) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetchFailed, origErr, "apt source %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors (startup tier, fatal).
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidLanguage Code = "INVALID_LANGUAGE"
	ErrCodeEmptyList       Code = "EMPTY_LIST"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// External dependency errors (startup tier, fatal).
	ErrCodeDependencyMissing Code = "DEPENDENCY_MISSING"
	ErrCodeDependencyVersion Code = "DEPENDENCY_VERSION"

	// Per-package errors (recovered locally, never fatal).
	ErrCodeFetchFailed    Code = "FETCH_FAILED"
	ErrCodeSourceNotFound Code = "SOURCE_NOT_FOUND"
	ErrCodeStatsFailed    Code = "STATS_FAILED"

	// Internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the code of the outermost structured error in err's chain,
// or ErrCodeInternal if err carries no code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
