package geo

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidParameter marks a shape or sampler input that cannot produce
	// geometry: non-positive radius, too few segments, unknown unit, etc.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSolverFailure marks a direct or inverse solution that came back
	// non-finite, typically for degenerate or near-antipodal input.
	ErrSolverFailure = errors.New("geodesic solver failure")

	// ErrCanceled is returned by batch operations stopped between features.
	ErrCanceled = errors.New("canceled")
)

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidParameter, format, args...)
}

// Invalidf wraps ErrInvalidParameter with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return invalidf(format, args...)
}

// IsInvalid reports whether err was caused by bad input parameters.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsSolverFailure reports whether err came from a non-finite geodesic solution.
func IsSolverFailure(err error) bool {
	return errors.Is(err, ErrSolverFailure)
}
