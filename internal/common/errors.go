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

// Pipeline error taxonomy. Per-kind failures are isolated at the orchestrator:
// an AcquisitionError aborts one kind, a ModelResponseError degrades to an
// empty draft, and a DateParseError only skips the recency check.
var (
	ErrAcquisition   = errors.New("document acquisition failed")
	ErrModelResponse = errors.New("model response not parseable")
	ErrDateParse     = errors.New("date parse failed")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// NewAppError builds an AppError with an operator-facing code.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// TagError attaches a sentinel from the taxonomy above to a contextual
// message. The cause stays in the chain so errors.Is matches both.
func TagError(sentinel error, message string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", sentinel, message)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, message, cause)
}
