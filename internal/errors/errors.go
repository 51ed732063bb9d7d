// Package errors provides structured error types for the appdna pipeline.
// Every failure surfaced by the schema loader, the document provider and the
// snapshot archive carries a category, a code, a message and a retryable flag.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by pipeline stage.
type ErrorCategory string

const (
	ErrCategorySchema     ErrorCategory = "SCHEMA"
	ErrCategoryDocument   ErrorCategory = "DOCUMENT"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryPersist    ErrorCategory = "PERSIST"
	ErrCategoryStorage    ErrorCategory = "STORAGE"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Schema codes
	CodeSchemaNotFound = "SCHEMA_NOT_FOUND"
	CodeSchemaInvalid  = "SCHEMA_INVALID"

	// Document codes
	CodeFileNotFound = "FILE_NOT_FOUND"
	CodeParseError   = "PARSE_ERROR"
	CodeReadFailed   = "READ_FAILED"

	// Validation codes
	CodeValidationFailed = "VALIDATION_FAILED"

	// Persist codes
	CodeWriteError = "WRITE_ERROR"

	// Storage codes
	CodeUploadFailed     = "UPLOAD_FAILED"
	CodeDownloadFailed   = "DOWNLOAD_FAILED"
	CodeDeleteFailed     = "DELETE_FAILED"
	CodeSnapshotNotFound = "SNAPSHOT_NOT_FOUND"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// AppDNAError is the structured error type used throughout the system.
type AppDNAError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *AppDNAError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *AppDNAError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *AppDNAError) Is(target error) bool {
	var t *AppDNAError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new AppDNAError.
func New(category ErrorCategory, code, message string) *AppDNAError {
	return &AppDNAError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new AppDNAError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *AppDNAError {
	return &AppDNAError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *AppDNAError) WithDetails(details map[string]interface{}) *AppDNAError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var ae *AppDNAError
	if errors.As(err, &ae) {
		return ae.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not an AppDNAError.
func GetCategory(err error) ErrorCategory {
	var ae *AppDNAError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not an AppDNAError.
func GetCode(err error) string {
	var ae *AppDNAError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// isRetryable reports whether a failure may succeed on a later attempt.
// Only object storage transfers qualify; the pipeline itself never retries.
func isRetryable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategoryStorage && code == CodeUploadFailed:
		return true
	case category == ErrCategoryStorage && code == CodeDownloadFailed:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

func NewSchemaNotFound(attempted []string) *AppDNAError {
	msg := "schema document not found"
	if len(attempted) > 0 {
		msg = fmt.Sprintf("schema document not found; attempted: %v", attempted)
	}
	return New(ErrCategorySchema, CodeSchemaNotFound, msg).
		WithDetails(map[string]interface{}{"attempted": attempted})
}

func NewSchemaInvalid(path string, cause error) *AppDNAError {
	return Wrap(ErrCategorySchema, CodeSchemaInvalid, fmt.Sprintf("schema document %s is invalid", path), cause)
}

func NewDocumentError(code, path string, cause error) *AppDNAError {
	var msg string
	switch code {
	case CodeFileNotFound:
		msg = fmt.Sprintf("document %s does not exist", path)
	case CodeParseError:
		msg = fmt.Sprintf("document %s is not valid JSON", path)
	default:
		msg = fmt.Sprintf("failed to read document %s", path)
	}
	return Wrap(ErrCategoryDocument, code, msg, cause).
		WithDetails(map[string]interface{}{"path": path})
}

func NewValidationFailed(message string) *AppDNAError {
	return New(ErrCategoryValidation, CodeValidationFailed, message)
}

func NewWriteError(path string, cause error) *AppDNAError {
	return Wrap(ErrCategoryPersist, CodeWriteError, fmt.Sprintf("failed to write %s", path), cause).
		WithDetails(map[string]interface{}{"path": path})
}

func NewStorageError(code, message string, cause error) *AppDNAError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewInternalError(message string, cause error) *AppDNAError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
