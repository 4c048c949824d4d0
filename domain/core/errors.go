package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Numerical errors
	ErrNotPositiveDefinite = errors.New("covariance matrix is not positive definite")
	ErrSingularMatrix      = errors.New("matrix is singular")

	// Fitting errors
	ErrFitFailed        = errors.New("model fit failed")
	ErrNoConvergence    = fmt.Errorf("%w: did not converge", ErrFitFailed)
	ErrEmptyLambdaGrid  = fmt.Errorf("%w: empty penalty grid", ErrFitFailed)
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Aggregation errors
	ErrLevelMismatch = errors.New("target FDR levels differ between trials")
	ErrNoTrials      = errors.New("trial count must be positive")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
	ErrHashMismatch = errors.New("hash mismatch")
)

// NewValidationError reports an invalid parameter with a reason.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// NewDimensionError reports incompatible matrix/vector dimensions.
func NewDimensionError(what string, got, want int) error {
	return fmt.Errorf("dimension mismatch for %s: got %d, want %d", what, got, want)
}

// NewFactorizationError wraps a failed matrix factorization with context
// about the offending matrix so the run can abort with a clear diagnostic.
func NewFactorizationError(matrix string, size int) error {
	return fmt.Errorf("%w: cholesky factorization of %s (%dx%d) failed", ErrNotPositiveDefinite, matrix, size, size)
}

// NewLevelMismatchError reports inconsistent target-FDR level lists across trials.
func NewLevelMismatchError(trial int, got, want []float64) error {
	return fmt.Errorf("%w: trial %d returned %v, first trial returned %v", ErrLevelMismatch, trial, got, want)
}

// IsNumericalError checks if an error stems from a numerical failure.
func IsNumericalError(err error) bool {
	return errors.Is(err, ErrNotPositiveDefinite) ||
		errors.Is(err, ErrSingularMatrix)
}

// IsFitError checks if an error stems from an external fitting routine.
func IsFitError(err error) bool {
	return errors.Is(err, ErrFitFailed)
}
