package shape

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/shapefit/ellipsoid"
	"go.viam.com/shapefit/harmonics"
	"go.viam.com/shapefit/logging"
	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/utils"
)

// Expansion is the result of fitting a harmonic expansion to a cloud.
type Expansion struct {
	// Points is the smoothed cloud mapped back through the ellipsoid reconstruction, one
	// point per input point in the same order.
	Points pointcloud.Cloud
	// Surface is the descriptor evaluated at every input angle. It interpolates the input
	// once the degree has at least as many coefficients as there are points.
	Surface    pointcloud.Cloud
	Angles     []ellipsoid.Angle
	Ellipsoid  *ellipsoid.Ellipsoid
	Descriptor Descriptor
	// Warnings holds non-fatal diagnostics such as utils.ErrUnderdeterminedFit.
	Warnings []error
}

// An Expander fits harmonic expansions of a fixed maximum degree.
type Expander struct {
	maxDegree int
	parallel  bool
	logger    logging.Logger
}

// NewExpander returns an Expander using the degree and parallelism of cfg. A nil logger
// discards all logs.
func NewExpander(cfg Config, logger logging.Logger) (*Expander, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("expander")
	}
	if cfg.MaxDegree < 0 || cfg.MaxDegree > MaxSupportedDegree {
		return nil, utils.NewInvalidArgumentError("max degree must be in [0, %d], got %d", MaxSupportedDegree, cfg.MaxDegree)
	}
	return &Expander{maxDegree: cfg.MaxDegree, parallel: cfg.Parallel, logger: logger}, nil
}

// Expand fits an ellipsoid to pc, fits one harmonic expansion per axis over the ellipsoid
// angles of pc, and evaluates the expansions back at those angles. The context is only
// checked between stages.
func (e *Expander) Expand(ctx context.Context, pc pointcloud.Cloud) (*Expansion, error) {
	if pc.Size() == 0 {
		return nil, utils.NewInsufficientPointsError("harmonic expansion", 0, 1)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	fit, err := ellipsoid.Fit(pc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot expand without an ellipsoid")
	}
	e.logger.Debugw("fit ellipsoid",
		"center", fit.Center,
		"axes", fit.Axes,
		"duration", time.Since(start))
	angles := ellipsoid.ToAngular(fit, pc, true)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	descriptor, err := e.fitAxes(ctx, angles, pc)
	if err != nil {
		return nil, err
	}

	var warnings []error
	if descriptor[0].Underdetermined() {
		warning := descriptor[0].Warning()
		warnings = append(warnings, warning)
		e.logger.Warnw("harmonic fit is underdetermined, using the minimum norm solution",
			"samples", pc.Size(),
			"coefficients", descriptor[0].Len(),
			"degree", e.maxDegree)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	surface := lo.Map(angles, func(a ellipsoid.Angle, _ int) r3.Vector {
		return descriptor.Evaluate(a.U, a.V)
	})
	for i, p := range surface {
		if !utils.IsFinite(p.X) || !utils.IsFinite(p.Y) || !utils.IsFinite(p.Z) {
			return nil, utils.NewNumericInstabilityError("evaluating expansion", errors.Errorf("point %d is %v", i, p))
		}
	}
	smoothed := lo.Map(surface, func(p r3.Vector, _ int) ellipsoid.Angle {
		return ellipsoid.Angle{U: p.X, V: p.Y}
	})

	return &Expansion{
		Points:     ellipsoid.ToCartesian(fit, smoothed, true),
		Surface:    surface,
		Angles:     angles,
		Ellipsoid:  fit,
		Descriptor: descriptor,
		Warnings:   warnings,
	}, nil
}

func (e *Expander) fitAxes(ctx context.Context, angles []ellipsoid.Angle, pc pointcloud.Cloud) (Descriptor, error) {
	xs, ys, zs := pc.Components()
	values := [3][]float64{xs, ys, zs}
	var descriptor Descriptor

	fitAxis := func(axis int) error {
		table, err := harmonics.FitCoefficients(angles, values[axis], e.maxDegree)
		if err != nil {
			return utils.NewNumericInstabilityError(fmt.Sprintf("fitting %s coefficients", AxisNames[axis]), err)
		}
		descriptor[axis] = table
		return nil
	}

	start := time.Now()
	if e.parallel {
		fs := make([]utils.SimpleFunc, 0, 3)
		for axis := range values {
			axis := axis
			fs = append(fs, func(ctx context.Context) error {
				return fitAxis(axis)
			})
		}
		if _, err := utils.RunInParallel(ctx, fs); err != nil {
			return Descriptor{}, err
		}
	} else {
		for axis := range values {
			if err := fitAxis(axis); err != nil {
				return Descriptor{}, err
			}
		}
	}
	e.logger.Debugw("fit harmonic coefficients",
		"degree", e.maxDegree,
		"coefficients", harmonics.NumCoefficients(e.maxDegree),
		"parallel", e.parallel,
		"duration", time.Since(start))
	return descriptor, nil
}
