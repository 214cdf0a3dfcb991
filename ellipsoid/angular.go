package ellipsoid

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/spatialmath"
	"go.viam.com/shapefit/utils"
)

// Angle is an ellipsoid-adapted angular coordinate. Both angles lie in [0, 2π).
type Angle struct {
	U, V float64
}

// frame returns the rotation whose transpose takes centered points into the ellipsoid's
// principal frame. invert selects the eigenvector matrix itself, otherwise its transpose.
func frame(fit *Ellipsoid, invert bool) *spatialmath.RotationMatrix {
	if invert {
		return fit.Orientation
	}
	return fit.Orientation.Transpose()
}

// lengths returns the square roots of the semi-axes.
func lengths(fit *Ellipsoid) [3]float64 {
	return [3]float64{math.Sqrt(fit.Axes[0]), math.Sqrt(fit.Axes[1]), math.Sqrt(fit.Axes[2])}
}

// ToAngular maps every point into the principal frame of fit and computes its (U, V).
// U is the azimuth around the third axis and V the elevation from it, both stretched by
// the square roots of the semi-axes.
func ToAngular(fit *Ellipsoid, pc pointcloud.Cloud, invert bool) []Angle {
	rot := frame(fit, invert)
	l := lengths(fit)
	return lo.Map(pc, func(p r3.Vector, _ int) Angle {
		local := rot.MulTranspose(p.Sub(fit.Center))
		u := utils.WrapTwoPi(math.Atan2(local.Y*l[0], local.X*l[1]))
		rho := math.Hypot(local.X, local.Y)
		expected := math.Hypot(l[0]*math.Cos(u), l[1]*math.Sin(u))
		v := utils.WrapTwoPi(math.Atan2(rho*l[2], local.Z*expected))
		return Angle{U: u, V: v}
	})
}

// ToCartesian rebuilds points from angles on the reference shape spanned by the square
// roots of the first two semi-axes, then rotates and translates them back. It is not the
// inverse of ToAngular; see ToSurface for that.
func ToCartesian(fit *Ellipsoid, angles []Angle, invert bool) pointcloud.Cloud {
	rot := frame(fit, invert)
	su, sv := math.Sqrt(fit.Axes[0]), math.Sqrt(fit.Axes[1])
	return lo.Map(angles, func(a Angle, _ int) r3.Vector {
		uLength := math.Cos(a.U) * su
		vLength := math.Sin(a.U) * sv
		local := r3.Vector{X: uLength * math.Cos(a.V), Y: uLength * math.Sin(a.V), Z: vLength}
		return rot.Mul(local).Add(fit.Center)
	})
}

// ToSurface returns, for every angle, the point along the ray that ToAngular maps to that
// angle, scaled onto the ellipsoid in the same frame. With invert set that is the fitted
// surface and ToSurface undoes ToAngular for points on it.
func ToSurface(fit *Ellipsoid, angles []Angle, invert bool) pointcloud.Cloud {
	rot := frame(fit, invert)
	l := lengths(fit)
	return lo.Map(angles, func(a Angle, _ int) r3.Vector {
		sinV := math.Sin(a.V)
		dir := r3.Vector{
			X: l[0] * math.Cos(a.U) * sinV,
			Y: l[1] * math.Sin(a.U) * sinV,
			Z: l[2] * math.Cos(a.V),
		}
		scaled := r3.Vector{X: dir.X / fit.Axes[0], Y: dir.Y / fit.Axes[1], Z: dir.Z / fit.Axes[2]}
		local := dir.Mul(1 / scaled.Norm())
		return rot.Mul(local).Add(fit.Center)
	})
}
