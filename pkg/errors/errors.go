// Package errors provides structured error types for pdfwatermark.
//
// This package defines error codes and types that enable:
//   - Separating configuration errors (which abort a whole run) from
//     task errors (which are scoped to a single file)
//   - Machine-readable error codes for programmatic handling
//   - Reporting the offending file path alongside the message
//
// # Error Codes
//
// Codes fall into four categories:
//   - Configuration: INVALID_INPUT, INVALID_OPTION, OUTPUT_MISMATCH, DUPLICATE_PATH
//   - Resource: FONT_RESOLUTION, IMAGE_DECODE
//   - I/O: IO_ERROR
//   - Compositing: COMPOSITING
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "input %q does not exist", path)
//	if errors.IsConfig(err) {
//	    // abort before processing any file
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidOption  Code = "INVALID_OPTION"
	ErrCodeOutputMismatch Code = "OUTPUT_MISMATCH"
	ErrCodeDuplicatePath  Code = "DUPLICATE_PATH"

	// Resource errors
	ErrCodeFontResolution Code = "FONT_RESOLUTION"
	ErrCodeImageDecode    Code = "IMAGE_DECODE"

	// Task errors
	ErrCodeIO          Code = "IO_ERROR"
	ErrCodeCompositing Code = "COMPOSITING"
	ErrCodeCanceled    Code = "CANCELED"
)

var configCodes = map[Code]bool{
	ErrCodeInvalidInput:   true,
	ErrCodeInvalidOption:  true,
	ErrCodeOutputMismatch: true,
	ErrCodeDuplicatePath:  true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Offending file (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath returns a copy of e that names the offending file.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
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

// IsConfig reports whether err is a configuration error. Configuration
// errors are detected before any file is processed and abort the run.
func IsConfig(err error) bool {
	return configCodes[GetCode(err)]
}

// Annotate attaches path to err. An *Error keeps its code; any other error
// is wrapped with code.
func Annotate(err error, code Code, path string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return e
		}
		return e.WithPath(path)
	}
	return &Error{Code: code, Message: "failed", Path: path, Cause: err}
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		msg := e.Message
		if e.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, e.Cause)
		}
		return msg
	}
	return err.Error()
}
