package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInsufficientPoints is returned when an operation is given too few points.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrDegenerateFit is returned when a least squares system is singular or near singular.
	ErrDegenerateFit = errors.New("degenerate fit")
	// ErrInvalidGeometry is returned when a fitted ellipsoid has a non-positive or non-finite axis.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidArgument is returned for out of range degrees, orders and spacings.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNumericInstability is returned when a solver produces non-finite values.
	ErrNumericInstability = errors.New("numeric instability")
	// ErrUnderdeterminedFit is a non-fatal diagnostic: the fit has more unknowns than samples
	// and the returned solution is the minimum norm one.
	ErrUnderdeterminedFit = errors.New("underdetermined fit")
)

// NewInsufficientPointsError is used when fewer than need points were supplied.
func NewInsufficientPointsError(op string, have, need int) error {
	return errors.Wrapf(ErrInsufficientPoints, "%s needs at least %d points but got %d", op, need, have)
}

// NewDegenerateFitError is used when a decomposition cannot solve a fit.
func NewDegenerateFitError(op string, cause error) error {
	if cause == nil {
		return errors.Wrap(ErrDegenerateFit, op)
	}
	return errors.Wrapf(ErrDegenerateFit, "%s: %v", op, cause)
}

// NewInvalidGeometryError is used when an axis of a fitted ellipsoid is unusable.
func NewInvalidGeometryError(axis int, eigenvalue float64) error {
	return errors.Wrapf(ErrInvalidGeometry, "axis %d has eigenvalue %g", axis, eigenvalue)
}

// NewInvalidArgumentError is used when a parameter is out of its allowed range.
func NewInvalidArgumentError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// NewNumericInstabilityError is used when a computation cannot produce finite values. The
// returned error matches both ErrNumericInstability and cause.
func NewNumericInstabilityError(op string, cause error) error {
	if cause == nil {
		return errors.Wrap(ErrNumericInstability, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrNumericInstability, op, cause)
}

// NewUnderdeterminedFitError describes a fit with fewer samples than unknowns.
func NewUnderdeterminedFitError(samples, unknowns int) error {
	return errors.Wrapf(ErrUnderdeterminedFit, "%d samples for %d unknowns", samples, unknowns)
}
