package utils

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestErrorConstructors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		err      error
		sentinel error
		errStr   string
	}{
		{"insufficient", NewInsufficientPointsError("resample", 3, 4), ErrInsufficientPoints, "resample needs at least 4 points but got 3"},
		{"degenerate", NewDegenerateFitError("quadric fit", errors.New("singular")), ErrDegenerateFit, "quadric fit: singular"},
		{"degenerate no cause", NewDegenerateFitError("center solve", nil), ErrDegenerateFit, "center solve"},
		{"geometry", NewInvalidGeometryError(2, 0), ErrInvalidGeometry, "axis 2 has eigenvalue 0"},
		{"argument", NewInvalidArgumentError("spacing must be positive, got %v", -1.0), ErrInvalidArgument, "spacing must be positive, got -1"},
		{"underdetermined", NewUnderdeterminedFitError(4, 9), ErrUnderdeterminedFit, "4 samples for 9 unknowns"},
		{"instability", NewNumericInstabilityError("x axis", nil), ErrNumericInstability, "x axis"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, errors.Is(tc.err, tc.sentinel), test.ShouldBeTrue)
			test.That(t, tc.err.Error(), test.ShouldContainSubstring, tc.errStr)
		})
	}
}

func TestNumericInstabilityWrapsCause(t *testing.T) {
	cause := NewDegenerateFitError("harmonic fit", nil)
	err := NewNumericInstabilityError("y axis", cause)
	test.That(t, errors.Is(err, ErrNumericInstability), test.ShouldBeTrue)
	test.That(t, errors.Is(err, ErrDegenerateFit), test.ShouldBeTrue)
	test.That(t, errors.Is(err, ErrInvalidGeometry), test.ShouldBeFalse)
}
