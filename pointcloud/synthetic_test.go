package pointcloud

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestFibonacciDirections(t *testing.T) {
	test.That(t, FibonacciDirections(0), test.ShouldHaveLength, 0)
	test.That(t, FibonacciDirections(-3), test.ShouldHaveLength, 0)

	dirs := FibonacciDirections(200)
	test.That(t, dirs, test.ShouldHaveLength, 200)
	for _, d := range dirs {
		test.That(t, d.Norm(), test.ShouldAlmostEqual, 1.)
	}
	// polar angles march monotonically from the north pole to the south pole
	for i := 1; i < len(dirs); i++ {
		test.That(t, dirs[i].Z, test.ShouldBeLessThan, dirs[i-1].Z)
	}
	// z components are symmetric so the lattice is balanced along z
	test.That(t, dirs.Centroid().Z, test.ShouldAlmostEqual, 0.)
	test.That(t, FibonacciDirections(200), test.ShouldResemble, dirs)

	first := dirs.At(0)
	test.That(t, first.Z, test.ShouldAlmostEqual, 1-1./200)
	test.That(t, math.Atan2(first.Y, first.X), test.ShouldAlmostEqual, 0.)
}

func TestMakeEllipsoidCloud(t *testing.T) {
	center := r3.Vector{1, -2, 3}
	pc := MakeEllipsoidCloud(3, 2, 1, 300, center)
	test.That(t, pc, test.ShouldHaveLength, 300)
	for _, p := range pc {
		d := p.Sub(center)
		test.That(t, d.X*d.X/9+d.Y*d.Y/4+d.Z*d.Z, test.ShouldAlmostEqual, 1.)
	}
	meta := pc.MetaData()
	test.That(t, meta.MaxX-center.X, test.ShouldBeLessThanOrEqualTo, 3.)
	test.That(t, meta.MaxZ-center.Z, test.ShouldBeLessThanOrEqualTo, 1.)
}

func TestRandomEllipsoidCloud(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(7))
	pc := RandomEllipsoidCloud(2, 1.5, 1, 250, rng)
	test.That(t, pc, test.ShouldHaveLength, 250)
	for _, p := range pc {
		test.That(t, p.X*p.X/4+p.Y*p.Y/2.25+p.Z*p.Z, test.ShouldAlmostEqual, 1.)
	}

	noisy := AddNoise(pc, 0.01, rng)
	test.That(t, noisy, test.ShouldHaveLength, 250)
	test.That(t, noisy.At(0), test.ShouldNotResemble, pc.At(0))
	test.That(t, noisy.At(0).Sub(pc.At(0)).Norm(), test.ShouldBeLessThan, 0.1)
	test.That(t, AddNoise(pc, 0, rng), test.ShouldResemble, pc)

	doubled := pc.Transform(func(p r3.Vector) r3.Vector { return p.Mul(2) })
	test.That(t, doubled.At(3), test.ShouldResemble, pc.At(3).Mul(2))
}
