package pointcloud

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

// GoldenRatio is (1 + √5) / 2.
var GoldenRatio = (1 + math.Sqrt(5)) / 2

// FibonacciDirections returns n near-uniform unit directions on the sphere. Direction i has
// azimuth 2πi/φ and polar angle acos(1 − 2(i+0.5)/n); the order is deterministic.
func FibonacciDirections(n int) Cloud {
	if n <= 0 {
		return Cloud{}
	}
	directions := make(Cloud, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / GoldenRatio
		phi := math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
		directions[i] = r3.Vector{
			X: math.Cos(theta) * math.Sin(phi),
			Y: math.Sin(theta) * math.Sin(phi),
			Z: math.Cos(phi),
		}
	}
	return directions
}

// MakeEllipsoidCloud places n points on an axis aligned ellipsoid with semi-axes a, b, c
// centered at center by stretching a Fibonacci lattice.
func MakeEllipsoidCloud(a, b, c float64, n int, center r3.Vector) Cloud {
	return lo.Map(FibonacciDirections(n), func(d r3.Vector, _ int) r3.Vector {
		return r3.Vector{X: a * d.X, Y: b * d.Y, Z: c * d.Z}.Add(center)
	})
}

// RandomEllipsoidCloud samples n points on an axis aligned ellipsoid centered at the origin,
// drawing longitude uniformly in [0, 2π) and latitude uniformly in [-π/2, π/2).
func RandomEllipsoidCloud(a, b, c float64, n int, rng *rand.Rand) Cloud {
	points := make(Cloud, n)
	for i := range points {
		theta := 2 * math.Pi * rng.Float64()
		phi := math.Pi*rng.Float64() - math.Pi/2
		points[i] = r3.Vector{
			X: a * math.Cos(theta) * math.Cos(phi),
			Y: b * math.Sin(theta) * math.Cos(phi),
			Z: c * math.Sin(phi),
		}
	}
	return points
}

// AddNoise returns a copy of c with zero mean gaussian noise of the given standard deviation
// added to every coordinate.
func AddNoise(c Cloud, sigma float64, rng *rand.Rand) Cloud {
	if sigma <= 0 {
		return c.Clone()
	}
	return lo.Map(c, func(p r3.Vector, _ int) r3.Vector {
		return p.Add(r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}.Mul(sigma))
	})
}

// Transform returns a new cloud with fn applied to every point.
func (c Cloud) Transform(fn func(p r3.Vector) r3.Vector) Cloud {
	return lo.Map(c, func(p r3.Vector, _ int) r3.Vector {
		return fn(p)
	})
}
