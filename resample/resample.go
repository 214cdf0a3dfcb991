// Package resample redistributes a surface point cloud onto a near-uniform angular lattice.
package resample

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"

	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/utils"
)

// MinPoints is the fewest usable points Resample accepts.
const MinPoints = 4

// Config controls resampling.
type Config struct {
	// TargetSpacing is the desired distance between neighboring output points.
	TargetSpacing float64 `json:"target_spacing"`
	// AssumeCentered states the cloud is already centered on the origin. Otherwise it is
	// centered on its centroid and the output is moved back.
	AssumeCentered bool `json:"assume_centered"`
	// Parallel spreads the interpolation over several goroutines.
	Parallel bool `json:"parallel"`
}

// Validate ensures all parts of the config are valid.
func (cfg Config) Validate() error {
	if !(cfg.TargetSpacing > 0) || math.IsInf(cfg.TargetSpacing, 1) {
		return utils.NewInvalidArgumentError("target spacing must be positive and finite, got %g", cfg.TargetSpacing)
	}
	return nil
}

// TargetCount returns round(4π r² / spacing²), at least 1.
func TargetCount(meanRadius, spacing float64) int {
	n := int(math.Round(4 * math.Pi * meanRadius * meanRadius / (spacing * spacing)))
	if n < 1 {
		return 1
	}
	return n
}

// FibonacciDirections returns the target directions used for n output points.
func FibonacciDirections(n int) pointcloud.Cloud {
	return pointcloud.FibonacciDirections(n)
}

type source struct {
	point     r3.Vector
	direction r3.Vector
	radius    float64
}

// Resample returns TargetCount points, one per Fibonacci direction in generation order. Each
// lies along its direction from the center at the inverse distance weighted radius of the
// input, weighting every input by the reciprocal distance between its direction and the
// target direction on the unit sphere. An input whose direction equals a target exactly is
// returned as is.
func Resample(ctx context.Context, pc pointcloud.Cloud, cfg Config) (pointcloud.Cloud, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pc.Size() < MinPoints {
		return nil, utils.NewInsufficientPointsError("resampling", pc.Size(), MinPoints)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var center r3.Vector
	if !cfg.AssumeCentered {
		center = pc.Centroid()
	}
	norms := pc.Norms(center)
	sources := make([]source, 0, pc.Size())
	pc.Iterate(0, 0, func(i int, p r3.Vector) bool {
		// a point at the center has no direction
		if norms[i] == 0 {
			return true
		}
		sources = append(sources, source{point: p, direction: p.Sub(center).Mul(1 / norms[i]), radius: norms[i]})
		return true
	})
	if len(sources) < MinPoints {
		return nil, utils.NewInsufficientPointsError("resampling", len(sources), MinPoints)
	}

	meanRadius, err := stats.Mean(norms)
	if err != nil {
		return nil, err
	}
	targets := FibonacciDirections(TargetCount(meanRadius, cfg.TargetSpacing))
	out := make(pointcloud.Cloud, targets.Size())

	if !cfg.Parallel {
		for i, d := range targets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = interpolate(sources, center, d)
		}
		return out, nil
	}

	err = utils.GroupWorkParallel(
		ctx,
		targets.Size(),
		nil,
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				out[workNum] = interpolate(sources, center, targets[workNum])
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func interpolate(sources []source, center, target r3.Vector) r3.Vector {
	weightSum, radiusSum := 0., 0.
	for _, s := range sources {
		dist := s.direction.Sub(target).Norm()
		if dist == 0 {
			return s.point
		}
		w := 1 / dist
		weightSum += w
		radiusSum += w * s.radius
	}
	return center.Add(target.Mul(radiusSum / weightSum))
}
