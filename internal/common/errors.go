package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Fatal pipeline error kinds. Non-fatal conditions are recorded as metadata
// flags on the result instead of being raised.
var (
	ErrInput             = errors.New("no image supplied")
	ErrEngineUnavailable = errors.New("all recognition providers failed")
	ErrNoTextFound       = errors.New("no text recognized")
	ErrTimeout           = errors.New("pipeline timed out")
	ErrNotFound          = errors.New("resource not found")
	ErrInternal          = errors.New("internal error")
)

// Stable codes surfaced to callers alongside the kinds above.
const (
	CodeInputError        = "INPUT_ERROR"
	CodeEngineUnavailable = "ENGINE_UNAVAILABLE"
	CodeNoTextFound       = "NO_TEXT_FOUND"
	CodeTimeout           = "TIMEOUT"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func InputError(message string) error {
	return NewAppError(CodeInputError, message, ErrInput)
}

func EngineUnavailableError(message string, cause error) error {
	if cause == nil {
		cause = ErrEngineUnavailable
	}
	return NewAppError(CodeEngineUnavailable, message, fmt.Errorf("%w: %w", ErrEngineUnavailable, cause))
}

func NoTextFoundError(message string) error {
	return NewAppError(CodeNoTextFound, message, ErrNoTextFound)
}

func TimeoutError(message string) error {
	return NewAppError(CodeTimeout, message, ErrTimeout)
}

func NotFoundError(message string) error {
	return NewAppError(CodeNotFound, message, ErrNotFound)
}

func InternalError(message string, cause error) error {
	return NewAppError(CodeInternal, message, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Code extracts the stable code from an error, or CodeInternal.
func Code(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return CodeInternal
}
