package kdego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEpsilon is returned when the accuracy parameter is outside (0, 1].
	ErrInvalidEpsilon = errors.New("eps must be in (0, 1]")

	// ErrInvalidBandwidth is returned when the Gaussian bandwidth is not positive.
	ErrInvalidBandwidth = errors.New("bandwidth must be positive")

	// ErrEmptyDataset is returned when an engine is constructed over a nil or
	// empty dataset.
	ErrEmptyDataset = errors.New("dataset has no rows")

	// ErrInvariantViolation indicates an internal construction bug, such as a
	// sampling level exceeding the level count for its density guess. It is
	// not recoverable; the whole construction is aborted.
	ErrInvariantViolation = errors.New("internal invariant violation")
)

// ErrDimensionMismatch indicates that query points do not match the dataset
// dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
