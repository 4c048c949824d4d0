package errors

import (
	"fmt"
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

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
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

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode extracts the error code, if any
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeNumericalError = "NUMERICAL_ERROR"
	CodeFitError       = "FIT_ERROR"
	CodePlotError      = "PLOT_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// NumericalError marks a fatal numerical failure, e.g. a factorization
// of a matrix that should have been positive definite.
func NumericalError(message string, cause error) *AppError {
	return &AppError{Code: CodeNumericalError, Message: message, Cause: cause}
}

// FitError marks a failure inside an external fitting routine.
func FitError(routine string, cause error) *AppError {
	return &AppError{
		Code:    CodeFitError,
		Message: fmt.Sprintf("%s fit failed", routine),
		Cause:   cause,
	}
}

// PlotError marks a failure while rendering or writing the figure.
func PlotError(message string, cause error) *AppError {
	return &AppError{Code: CodePlotError, Message: message, Cause: cause}
}
