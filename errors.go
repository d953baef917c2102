package contextforge

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the builder configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBudgetExhausted is returned when the reserved response space
	// leaves no effective budget for the context at all
	ErrBudgetExhausted = errors.New("effective budget is not positive")

	// ErrStorageError is returned when loading history from a store fails
	ErrStorageError = errors.New("storage operation failed")

	// ErrSummarizerUnavailable reports that the summarizer could not be
	// used and the sliding window was substituted
	ErrSummarizerUnavailable = errors.New("summarizer unavailable")
)

// BuildError represents a build failure with additional context
type BuildError struct {
	Op      string         // Operation that failed
	Err     error          // Underlying error
	Context map[string]any // Additional context
}

// Error implements the error interface
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewBuildError creates a new BuildError
func NewBuildError(op string, err error) *BuildError {
	return &BuildError{
		Op:  op,
		Err: err,
	}
}
