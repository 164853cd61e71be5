// Package errors provides structured error types for filter graph construction
// and negotiation.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Identification of the node, filter kind and pad that caused a failure
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the phase that produces them:
//   - ALLOCATION: resource limits hit while growing the graph
//   - DISCONNECTED_PAD: validity phase
//   - UNSUPPORTED_MEDIA_TYPE, CONVERSION_FILTER_UNAVAILABLE,
//     INCOMPATIBLE_FORMATS: negotiation phase
//   - NODE_CONFIGURATION_FAILED: link configuration phase
//   - INVALID_*, NOT_FOUND, DUPLICATE_NAME: construction-time input errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDisconnectedPad, "input pad %q not connected", pad).
//	    WithNode(node, kind).WithPad(pad, "input")
//	if errors.Is(err, errors.ErrCodeDisconnectedPad) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNodeConfiguration, cause, "configure %s", name)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidLink   Code = "INVALID_LINK"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidArgs   Code = "INVALID_ARGS"
	ErrCodeDuplicateName Code = "DUPLICATE_NAME"

	// Resource errors
	ErrCodeNotFound   Code = "NOT_FOUND"
	ErrCodeAllocation Code = "ALLOCATION"

	// Validity errors
	ErrCodeDisconnectedPad Code = "DISCONNECTED_PAD"

	// Negotiation errors
	ErrCodeUnsupportedMediaType Code = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeConversionFilter     Code = "CONVERSION_FILTER_UNAVAILABLE"
	ErrCodeIncompatibleFormats  Code = "INCOMPATIBLE_FORMATS"

	// Link configuration errors
	ErrCodeNodeConfiguration Code = "NODE_CONFIGURATION_FAILED"

	// State errors
	ErrCodeAlreadyConfigured Code = "ALREADY_CONFIGURED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
//
// Node, Filter, Pad and Direction identify the graph element responsible for
// the failure. They are empty when the error is not tied to a single element.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	Node      string // Node instance name
	Filter    string // Filter kind name
	Pad       string // Pad name
	Direction string // "input" or "output"
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

// WithNode records the node instance and filter kind the error refers to.
func (e *Error) WithNode(node, filter string) *Error {
	e.Node = node
	e.Filter = filter
	return e
}

// WithPad records the pad name and direction the error refers to.
func (e *Error) WithPad(pad, direction string) *Error {
	e.Pad = pad
	e.Direction = direction
	return e
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

// Details extracts the structured element identification from err.
// The second result is false if err carries no *Error.
func Details(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
