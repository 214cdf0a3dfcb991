package harmonics

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/shapefit/utils"
)

func TestLegendre(t *testing.T) {
	for _, tc := range []struct {
		l    int
		x    float64
		want float64
	}{
		{0, 0.3, 1},
		{1, 0.3, 0.3},
		{2, 0.5, -0.125},
		{3, 0.5, -0.4375},
	} {
		got, err := Legendre(tc.l, tc.x)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldAlmostEqual, tc.want)
	}
	for l := 0; l < 8; l++ {
		got, err := Legendre(l, 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldAlmostEqual, 1.)
	}

	_, err := Legendre(-1, 0.5)
	test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)
}

func TestAssociatedLegendre(t *testing.T) {
	for _, tc := range []struct {
		l, m int
		x    float64
		want float64
	}{
		{2, 0, 0.5, -0.125},
		{1, 1, 0.6, -0.8},
		{2, 1, 0.5, -3 * 0.5 * math.Sqrt(0.75)},
		{2, 2, 0.5, 3 * 0.75},
		{3, 1, 0.5, -1.5 * (5*0.25 - 1) * math.Sqrt(0.75)},
		{2, -1, 0.5, 3 * 0.5 * math.Sqrt(0.75) / 6},
		{2, -2, 0.5, 3 * 0.75 / 24},
		{1, -1, 0.6, 0.4},
	} {
		got, err := AssociatedLegendre(tc.l, tc.m, tc.x)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldAlmostEqual, tc.want)
	}

	_, err := AssociatedLegendre(2, 3, 0.5)
	test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)
	_, err = AssociatedLegendre(2, -3, 0.5)
	test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)
	_, err = AssociatedLegendre(-1, 0, 0.5)
	test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)
}

func TestSphericalHarmonic(t *testing.T) {
	y, err := SphericalHarmonic(0, 0, 1.2, 0.4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, real(y), test.ShouldAlmostEqual, 1/math.Sqrt(4*math.Pi))
	test.That(t, imag(y), test.ShouldAlmostEqual, 0.)

	y, err = SphericalHarmonic(1, 0, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, real(y), test.ShouldAlmostEqual, math.Sqrt(3/(4*math.Pi)))

	y, err = SphericalHarmonic(1, 1, math.Pi/2, math.Pi/2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, real(y), test.ShouldAlmostEqual, 0.)
	test.That(t, imag(y), test.ShouldAlmostEqual, -math.Sqrt(3/(8*math.Pi)))

	_, err = SphericalHarmonic(1, 2, 0, 0)
	test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)

	test.That(t, Normalization(1, -1), test.ShouldAlmostEqual, math.Sqrt(6/(4*math.Pi)))
}

func TestRealBasis(t *testing.T) {
	cosine, err := RealBasis(1, 1, math.Pi/2, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cosine, test.ShouldAlmostEqual, -math.Sqrt(3/(8*math.Pi)))

	sine, err := RealBasis(1, -1, math.Pi/2, math.Pi/2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sine, test.ShouldAlmostEqual, -math.Sqrt(3/(8*math.Pi)))

	_, err = RealBasis(0, 1, 0, 0)
	test.That(t, err, test.ShouldNotBeNil)

	// the unchecked row builder agrees with the checked path
	row := make([]float64, NumCoefficients(3))
	basisRow(row, 3, 0.7, 2.1)
	for n := 0; n <= 3; n++ {
		for m := -n; m <= n; m++ {
			want, err := RealBasis(n, m, 0.7, 2.1)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, row[Index(n, m)], test.ShouldAlmostEqual, want)
		}
	}
}
