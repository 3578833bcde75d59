// Package errors defines the structured error type shared by the
// reconciliation core. Errors carry a category, a stable code, and
// key/value context so callers can react programmatically while still
// getting a readable message.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category groups errors by the subsystem that raised them.
type Category string

const (
	CategorySession    Category = "session"
	CategoryValidation Category = "validation"
	CategoryMatching   Category = "matching"
	CategoryExport     Category = "export"
	CategoryInternal   Category = "internal"
)

// Code identifies a specific failure within a category.
type Code string

const (
	// Session errors
	CodeSessionNotFound   Code = "session_not_found"
	CodeIncompleteSession Code = "incomplete_session"

	// Validation errors
	CodeInvalidOptions Code = "invalid_options"
	CodeMissingField   Code = "missing_field"

	// Matching errors
	CodeInternalMatching Code = "internal_matching"

	// Export errors
	CodeUnsupportedExportFormat Code = "unsupported_export_format"

	// Internal errors
	CodeUnexpected Code = "unexpected_error"
)

// Error is the base error type for the reconciliation core.
type Error struct {
	Category   Category          `json:"category"`
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context carries additional key/value information about the error.
type Context map[string]interface{}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns a process exit code appropriate for the error category.
func (e *Error) ExitCode() int {
	switch e.Category {
	case CategorySession:
		return 2
	case CategoryValidation:
		return 3
	case CategoryExport:
		return 4
	case CategoryMatching, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext attaches a key/value pair to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion attaches a remediation hint to the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error.
func New(category Category, code Code, message string) *Error {
	return &Error{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with category and code context.
func Wrap(err error, category Category, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// SessionNotFound reports an operation that referenced an unknown session id.
func SessionNotFound(sessionID string) *Error {
	return New(CategorySession, CodeSessionNotFound,
		fmt.Sprintf("session not found: %s", sessionID)).
		WithSuggestion("verify the session id or create a new session").
		WithContext("session_id", sessionID)
}

// IncompleteSession reports a match request made before both data sets were uploaded.
func IncompleteSession(sessionID string, missing string) *Error {
	return New(CategorySession, CodeIncompleteSession,
		fmt.Sprintf("session %s is missing %s data", sessionID, missing)).
		WithSuggestion(fmt.Sprintf("upload the %s data before running a match", missing)).
		WithContext("session_id", sessionID).
		WithContext("missing", missing)
}

// UnsupportedExportFormat reports an export request for a format other than csv.
func UnsupportedExportFormat(format string) *Error {
	return New(CategoryExport, CodeUnsupportedExportFormat,
		fmt.Sprintf("unsupported export format: %s", format)).
		WithSuggestion("only csv export is supported").
		WithContext("format", format)
}

// InternalMatching reports an unexpected fault during scoring or assignment.
func InternalMatching(sessionID string, err error) *Error {
	message := fmt.Sprintf("matching failed for session %s", sessionID)
	var result *Error
	if err != nil {
		result = Wrap(err, CategoryMatching, CodeInternalMatching, message)
	} else {
		result = New(CategoryMatching, CodeInternalMatching, message)
	}
	return result.
		WithSuggestion("check the matching options and input data, then re-run the match").
		WithContext("session_id", sessionID)
}

// InvalidOptions reports rejected matching configuration.
func InvalidOptions(field string, value interface{}, err error) *Error {
	message := fmt.Sprintf("invalid matching option '%s': %v", field, value)
	var result *Error
	if err != nil {
		result = Wrap(err, CategoryValidation, CodeInvalidOptions, message)
	} else {
		result = New(CategoryValidation, CodeInvalidOptions, message)
	}
	return result.
		WithContext("field", field).
		WithContext("value", value)
}

// IsError checks if an error is a structured reconciliation Error.
func IsError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// AsError extracts a structured Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether the error chain contains an Error with the given code.
func HasCode(err error, code Code) bool {
	if e, ok := AsError(err); ok {
		return e.Code == code
	}
	return false
}
