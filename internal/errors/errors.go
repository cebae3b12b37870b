package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeIOError       = "IO_ERROR"
	CodeParseError    = "PARSE_ERROR"
	CodeSchemaError   = "SCHEMA_ERROR"
	CodeEmptyInput    = "EMPTY_INPUT"
	CodeEmptyGroup    = "EMPTY_GROUP"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// IOError wraps a filesystem failure on path
func IOError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIOError,
		Message: fmt.Sprintf("i/o failure on %s", path),
		Cause:   cause,
	}
}

// ParseError reports a file name that lacks a run parameter
func ParseError(fileName, message string) *AppError {
	return New(CodeParseError, fmt.Sprintf("%s: %s", fileName, message))
}

// SchemaError reports required columns missing from a loaded file
func SchemaError(fileName string, missing []string) *AppError {
	return New(CodeSchemaError, fmt.Sprintf("%s: missing required columns [%s]", fileName, strings.Join(missing, ", ")))
}

// SchemaErrorf reports any other structural problem with a loaded file
func SchemaErrorf(fileName, format string, args ...interface{}) *AppError {
	return New(CodeSchemaError, fmt.Sprintf("%s: %s", fileName, fmt.Sprintf(format, args...)))
}

// EmptyInput reports a file with a header but no measurement rows
func EmptyInput(fileName string) *AppError {
	return New(CodeEmptyInput, fmt.Sprintf("%s: no measurement rows", fileName))
}

// EmptyGroup reports a chart filter that matched nothing
func EmptyGroup(chart string) *AppError {
	return New(CodeEmptyGroup, fmt.Sprintf("%s: no rows match the chart filter", chart))
}
