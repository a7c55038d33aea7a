// Package errors provides structured error types for the chordgen application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - SPAN_TOO_WIDE: A fingering that does not fit a 4-fret window
//   - UNRESOLVED_ANCHOR: A template is missing an anchor the engine needs
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidChord, "string %d: bad fret %q", n, fret)
//	if errors.Is(err, errors.ErrCodeInvalidChord) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeConverter, origErr, "convert %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidChord    Code = "INVALID_CHORD"
	ErrCodeInvalidFinger   Code = "INVALID_FINGER"
	ErrCodeInvalidFret     Code = "INVALID_FRET"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Layout errors
	ErrCodeSpanTooWide      Code = "SPAN_TOO_WIDE"
	ErrCodeUnresolvedAnchor Code = "UNRESOLVED_ANCHOR"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeChordNotFound Code = "CHORD_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// External tool errors
	ErrCodeConverter Code = "CONVERTER_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// MaxSpan is the number of frets a diagram shows.
const MaxSpan = 4

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

// coder is implemented by typed errors that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error with a
// matching code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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

// SpanTooWideError reports a fingering whose fretted strings cover more frets
// than a diagram can show. It is the one layout error meant for end users.
type SpanTooWideError struct {
	Min int // lowest fretted fret
	Max int // highest fretted fret
}

// Error implements the error interface.
func (e *SpanTooWideError) Error() string {
	return fmt.Sprintf("chord span cannot exceed %d frets (frets %d-%d)", MaxSpan, e.Min, e.Max)
}

// Code returns the error code for this error type.
func (e *SpanTooWideError) Code() Code {
	return ErrCodeSpanTooWide
}

// UnresolvedAnchorError reports a template lookup that found no node with the
// requested anchor id. It indicates a template that does not match the chord
// schema, never bad user input.
type UnresolvedAnchorError struct {
	ID string
}

// Error implements the error interface.
func (e *UnresolvedAnchorError) Error() string {
	return fmt.Sprintf("template anchor %q not found", e.ID)
}

// Code returns the error code for this error type.
func (e *UnresolvedAnchorError) Code() Code {
	return ErrCodeUnresolvedAnchor
}
