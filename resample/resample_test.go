package resample

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/utils"
)

func TestTargetCount(t *testing.T) {
	test.That(t, TargetCount(1, 0.3), test.ShouldEqual, 140)
	test.That(t, TargetCount(2, 1), test.ShouldEqual, 50)
	test.That(t, TargetCount(0.01, 1), test.ShouldEqual, 1)
	test.That(t, TargetCount(0, 1), test.ShouldEqual, 1)
}

func TestConfigValidate(t *testing.T) {
	test.That(t, Config{TargetSpacing: 0.3}.Validate(), test.ShouldBeNil)
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := Config{TargetSpacing: s}.Validate()
		test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)
	}
}

func TestResampleUnitSphere(t *testing.T) {
	pc := pointcloud.FibonacciDirections(162)
	out, err := Resample(context.Background(), pc, Config{TargetSpacing: 0.3, AssumeCentered: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldHaveLength, 140)
	for _, p := range out {
		test.That(t, p.Norm(), test.ShouldAlmostEqual, 1., 1e-6)
	}

	// output follows the generation order of the lattice
	dirs := FibonacciDirections(140)
	for i, p := range out {
		test.That(t, p.Normalize().Sub(dirs.At(i)).Norm(), test.ShouldAlmostEqual, 0., 1e-9)
	}
}

func TestResampleOffsetSphere(t *testing.T) {
	center := r3.Vector{5, -3, 1}
	radius := 2.
	pc := pointcloud.MakeEllipsoidCloud(radius, radius, radius, 400, center)

	out, err := Resample(context.Background(), pc, Config{TargetSpacing: 0.4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldHaveLength, TargetCount(radius, 0.4))
	for _, p := range out {
		test.That(t, p.Sub(center).Norm(), test.ShouldAlmostEqual, radius, 0.05*radius)
	}
	got := out.Centroid()
	test.That(t, got.X, test.ShouldAlmostEqual, center.X, 0.05)
	test.That(t, got.Y, test.ShouldAlmostEqual, center.Y, 0.05)
	test.That(t, got.Z, test.ShouldAlmostEqual, center.Z, 0.05)
}

func TestResampleCoincidence(t *testing.T) {
	dirs := FibonacciDirections(50)
	// the inputs sit exactly on the target directions, scaled by a varying radius
	pc := make(pointcloud.Cloud, dirs.Size())
	for i, d := range dirs {
		pc[i] = d.Mul(1 + 0.01*float64(i%3))
	}
	spacing := math.Sqrt(4 * math.Pi * math.Pow(meanRadius(pc), 2) / 50)
	out, err := Resample(context.Background(), pc, Config{TargetSpacing: spacing, AssumeCentered: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldHaveLength, 50)
	for i, p := range out {
		test.That(t, p.Sub(pc.At(i)).Norm(), test.ShouldAlmostEqual, 0., 1e-9)
	}
}

// meanRadius returns the mean distance from the origin.
func meanRadius(pc pointcloud.Cloud) float64 {
	sum := 0.
	for _, n := range pc.Norms(r3.Vector{}) {
		sum += n
	}
	return sum / float64(pc.Size())
}

func TestResampleParallel(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(11))
	pc := pointcloud.AddNoise(pointcloud.RandomEllipsoidCloud(3, 2, 1.5, 300, rng), 0.02, rng)

	seq, err := Resample(context.Background(), pc, Config{TargetSpacing: 0.5})
	test.That(t, err, test.ShouldBeNil)
	par, err := Resample(context.Background(), pc, Config{TargetSpacing: 0.5, Parallel: true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, par, test.ShouldResemble, seq)
}

func TestResampleErrors(t *testing.T) {
	ctx := context.Background()
	pc := pointcloud.FibonacciDirections(3)
	_, err := Resample(ctx, pc, Config{TargetSpacing: 0.3})
	test.That(t, errors.Is(err, utils.ErrInsufficientPoints), test.ShouldBeTrue)

	_, err = Resample(ctx, pointcloud.FibonacciDirections(10), Config{TargetSpacing: -1})
	test.That(t, errors.Is(err, utils.ErrInvalidArgument), test.ShouldBeTrue)

	// points at the center carry no direction and are skipped
	atCenter := pointcloud.Cloud{{}, {}, {}, {}, {1, 0, 0}}
	_, err = Resample(ctx, atCenter, Config{TargetSpacing: 0.3, AssumeCentered: true})
	test.That(t, errors.Is(err, utils.ErrInsufficientPoints), test.ShouldBeTrue)

	withCenter := append(pointcloud.FibonacciDirections(20), r3.Vector{})
	out, err := Resample(ctx, withCenter, Config{TargetSpacing: 0.5, AssumeCentered: true})
	test.That(t, err, test.ShouldBeNil)
	for _, p := range out {
		test.That(t, p.Norm(), test.ShouldAlmostEqual, 1., 1e-9)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Resample(cancelled, pointcloud.FibonacciDirections(10), Config{TargetSpacing: 0.3})
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}
