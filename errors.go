package leadform

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeImport     ErrorType = "import"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error is the unified error type for the form engine.
type Error struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s:%s] field '%s': %s", e.Type, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail to an Error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause adds a cause to an Error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithField adds field context to an Error
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// NewParseError creates a parse/format error (malformed JSON, schema
// missing pages).
func NewParseError(code, message string) *Error {
	return &Error{Type: ErrorTypeParse, Code: code, Message: message}
}

// NewValidationError creates a field validation error.
func NewValidationError(code, message string) *Error {
	return &Error{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewImportError creates an import pathway error.
func NewImportError(code, message string) *Error {
	return &Error{Type: ErrorTypeImport, Code: code, Message: message}
}

// NewNetworkError creates a network/fetch error.
func NewNetworkError(code, message string) *Error {
	return &Error{Type: ErrorTypeNetwork, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(code, message string) *Error {
	return &Error{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewStorageError creates a persistence error.
func NewStorageError(code, message string) *Error {
	return &Error{Type: ErrorTypeStorage, Code: code, Message: message}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string) *Error {
	return &Error{Type: ErrorTypeInternal, Code: code, Message: message}
}

// IsErrorType checks whether err is an Error of the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == errorType
	}
	return false
}
