// Package errors defines the structured error type shared across pilotgen.
// Fatal template failures (scan, parse, render) carry the template identifier
// and the best-available location so callers can report exactly which
// template and position failed without parsing message text.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeScan       ErrorType = "scan"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// Engine error codes. One code per fatal condition of the template engine.
const (
	CodeMalformedDirective = "MALFORMED_DIRECTIVE"
	CodeUnmatchedClose     = "UNMATCHED_CLOSE_DIRECTIVE"
	CodeUnclosedDirective  = "UNCLOSED_DIRECTIVE"
	CodeNestingTooDeep     = "DIRECTIVE_NESTING_TOO_DEEP"
)

// PilotError is a structured error type with template context.
type PilotError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Template string
	Path     string
	Offset   int
	Line     int
	Column   int

	// Recoverable marks errors the caller can continue past, e.g. a single
	// failed template in a batch.
	Recoverable bool
}

// Error implements the error interface.
func (e *PilotError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Template != "" {
		location := e.Template
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		} else if e.Offset > 0 {
			location += fmt.Sprintf("@%d", e.Offset)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *PilotError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *PilotError) Is(target error) bool {
	var t *PilotError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithTemplate attaches the identifier of the template being processed.
func (e *PilotError) WithTemplate(name string) *PilotError {
	e.Template = name

	return e
}

// WithPath attaches the dotted path of the offending directive.
func (e *PilotError) WithPath(path string) *PilotError {
	e.Path = path

	return e
}

// WithLocation attaches byte offset and derived line/column information.
func (e *PilotError) WithLocation(offset, line, column int) *PilotError {
	e.Offset = offset
	e.Line = line
	e.Column = column

	return e
}

// Error creation functions

// NewScanError creates a scan-time template error.
func NewScanError(code, message string) *PilotError {
	return &PilotError{
		Type:        ErrorTypeScan,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewParseError creates a parse-time template error.
func NewParseError(code, message string) *PilotError {
	return &PilotError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewRenderError creates a render-time template error.
func NewRenderError(code, message string) *PilotError {
	return &PilotError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *PilotError {
	return &PilotError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *PilotError {
	return &PilotError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *PilotError {
	return &PilotError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *PilotError {
	return &PilotError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var pe *PilotError
	if errors.As(err, &pe) {
		return pe.Recoverable
	}

	return false
}

// IsTemplateError reports whether err is a fatal template-processing error
// (scan, parse, or render).
func IsTemplateError(err error) bool {
	var pe *PilotError
	if errors.As(err, &pe) {
		switch pe.Type {
		case ErrorTypeScan, ErrorTypeParse, ErrorTypeRender:
			return true
		}
	}

	return false
}

// CodeOf extracts the error code, or "" for non-PilotError errors.
func CodeOf(err error) string {
	var pe *PilotError
	if errors.As(err, &pe) {
		return pe.Code
	}

	return ""
}
