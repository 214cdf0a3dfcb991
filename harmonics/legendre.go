// Package harmonics evaluates and fits real spherical harmonic expansions.
//
// Coefficients are indexed by degree n in [0, L] and order m in [-n, n]. The real basis
// member for m >= 0 is the real (cosine) part of Y(n, m) and for m < 0 its imaginary (sine)
// part.
package harmonics

import (
	"math"
	"math/cmplx"

	"go.viam.com/shapefit/utils"
)

// Legendre returns the Legendre polynomial P_l(x) using the three term recurrence.
func Legendre(l int, x float64) (float64, error) {
	if l < 0 {
		return 0, utils.NewInvalidArgumentError("degree %d must not be negative", l)
	}
	return legendre(l, x), nil
}

// legendre expects l >= 0.
func legendre(l int, x float64) float64 {
	if l == 0 {
		return 1
	}
	prev, cur := 1.0, x
	for k := 2; k <= l; k++ {
		prev, cur = cur, (float64(2*k-1)*x*cur-float64(k-1)*prev)/float64(k)
	}
	return cur
}

// AssociatedLegendre returns P_l^m(x), including the Condon-Shortley phase. Negative orders
// are the positive order value scaled by (-1)^m (l-m)!/(l+m)!.
func AssociatedLegendre(l, m int, x float64) (float64, error) {
	if l < 0 {
		return 0, utils.NewInvalidArgumentError("degree %d must not be negative", l)
	}
	am := utils.AbsInt(m)
	if am > l {
		return 0, utils.NewInvalidArgumentError("order %d out of range for degree %d", m, l)
	}
	return signedAssociatedLegendre(l, m, x), nil
}

// signedAssociatedLegendre expects |m| <= l.
func signedAssociatedLegendre(l, m int, x float64) float64 {
	if m >= 0 {
		return associatedLegendre(l, m, x)
	}
	am := -m
	sign := 1.0
	if am%2 == 1 {
		sign = -1
	}
	return sign * utils.Factorial(l-am) / utils.Factorial(l+am) * associatedLegendre(l, am, x)
}

// associatedLegendre expects 0 <= m <= l.
func associatedLegendre(l, m int, x float64) float64 {
	if m == 0 {
		return legendre(l, x)
	}
	pmm := 1.0
	somx2 := math.Sqrt((1 - x) * (1 + x))
	fact := 1.0
	for i := 1; i <= m; i++ {
		pmm *= -fact * somx2
		fact += 2
	}
	if l == m {
		return pmm
	}
	pmmp1 := x * float64(2*m+1) * pmm
	for ll := m + 2; ll <= l; ll++ {
		pll := (float64(2*ll-1)*x*pmmp1 - float64(ll+m-1)*pmm) / float64(ll-m)
		pmm, pmmp1 = pmmp1, pll
	}
	return pmmp1
}

// Normalization returns sqrt((2l+1)/(4π) · (l-m)!/(l+m)!).
func Normalization(l, m int) float64 {
	return math.Sqrt(float64(2*l+1) / (4 * math.Pi) * utils.Factorial(l-m) / utils.Factorial(l+m))
}

// SphericalHarmonic returns Y(l, m) at polar angle theta and azimuth phi. The real and
// imaginary parts are the cosine and sine members of the real basis.
func SphericalHarmonic(l, m int, theta, phi float64) (complex128, error) {
	p, err := AssociatedLegendre(l, m, math.Cos(theta))
	if err != nil {
		return 0, err
	}
	return complex(Normalization(l, m)*p, 0) * cmplx.Rect(1, float64(m)*phi), nil
}

// RealBasis returns the real basis member for (l, m): the real part of Y(l, m) when m >= 0
// and the imaginary part when m < 0.
func RealBasis(l, m int, theta, phi float64) (float64, error) {
	y, err := SphericalHarmonic(l, m, theta, phi)
	if err != nil {
		return 0, err
	}
	if m >= 0 {
		return real(y), nil
	}
	return imag(y), nil
}

// basisRow fills row with every real basis member up to degree in (n, m) order. It skips
// the range checks of RealBasis since every (n, m) it visits is valid.
func basisRow(row []float64, degree int, theta, phi float64) {
	x := math.Cos(theta)
	for n := 0; n <= degree; n++ {
		for m := -n; m <= n; m++ {
			scale := Normalization(n, m) * signedAssociatedLegendre(n, m, x)
			if m >= 0 {
				row[Index(n, m)] = scale * math.Cos(float64(m)*phi)
			} else {
				row[Index(n, m)] = scale * math.Sin(float64(m)*phi)
			}
		}
	}
}
