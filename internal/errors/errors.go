package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Cause     error  `json:"-"`
	File      string `json:"-"`
	Line      int    `json:"-"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidLead       = "INVALID_LEAD"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeServiceError      = "SERVICE_ERROR"
	ErrCodeCanceled          = "CANCELED"
)

func InvalidInput(message string, cause error) *AppError {
	return NewAppError(ErrCodeInvalidInput, message, cause)
}

// InvalidLead is returned when a lead fails boundary validation
func InvalidLead(message string, cause error) *AppError {
	return NewAppError(ErrCodeInvalidLead, message, cause)
}

func UnsupportedFormat(format string) *AppError {
	return NewAppError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format), nil)
}

// ConfigError wraps failures loading or validating configuration
func ConfigError(message string, cause error) *AppError {
	return NewAppError(ErrCodeConfigError, message, cause)
}

func InternalError(message string, cause error) *AppError {
	return NewAppError(ErrCodeInternalError, message, cause)
}

func ServiceError(message string, cause error) *AppError {
	return NewAppError(ErrCodeServiceError, message, cause)
}

func Canceled(cause error) *AppError {
	return NewAppError(ErrCodeCanceled, "request canceled", cause)
}

// As is errors.As narrowed to *AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status code the API responds with
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidLead, ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case ErrCodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
