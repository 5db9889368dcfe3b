package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)
	ErrDatasetNotFound  = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrColumnNotFound   = errors.New("column not found")

	// Validation errors
	ErrNotNumeric         = errors.New("column is not numeric")
	ErrNotCategorical     = errors.New("column is not categorical")
	ErrTooFewLevels       = errors.New("grouping column has fewer than two levels")
	ErrInsufficientData   = errors.New("insufficient data for analysis")
	ErrLengthMismatch     = errors.New("paired columns have different lengths")
	ErrUnsupportedOption  = errors.New("unsupported analysis option")
	ErrDegenerateVariance = errors.New("zero variance in input data")
)

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func NewNotNumericError(name string) error {
	return fmt.Errorf("%w: %q", ErrNotNumeric, name)
}

func NewTooFewLevelsError(name string, levels int) error {
	return fmt.Errorf("%w: %q has %d", ErrTooFewLevels, name, levels)
}

func NewInsufficientDataError(need, got int) error {
	return fmt.Errorf("%w: need at least %d observations, got %d", ErrInsufficientData, need, got)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrColumnNotFound)
}

// IsValidationError reports whether the error is a user-input problem rather
// than an internal failure. Callers surface these as messages, not crashes.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrNotCategorical) ||
		errors.Is(err, ErrTooFewLevels) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrUnsupportedOption)
}

// IsSkippable reports whether the analysis should degrade to a sample-size
// annotation instead of failing outright.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrDegenerateVariance)
}
