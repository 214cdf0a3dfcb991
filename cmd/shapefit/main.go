// Package main fits a spherical harmonic shape descriptor to a synthetic droplet.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/shapefit/logging"
	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/shape"
	"go.viam.com/shapefit/utils"
)

var (
	logger = logging.NewLogger("shapefit")

	stdout io.Writer = os.Stdout
)

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// floatFlag is a float64 usable as a flag with a default.
type floatFlag float64

func (f *floatFlag) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 64)
}

func (f *floatFlag) Set(val string) error {
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return err
	}
	*f = floatFlag(parsed)
	return nil
}

func (f *floatFlag) Get() interface{} {
	return float64(*f)
}

// Arguments for the command. Float flags left at zero take the defaults below.
type Arguments struct {
	A        floatFlag `flag:"a,usage=semi-axis along x (default 3)"`
	B        floatFlag `flag:"b,usage=semi-axis along y (default 2)"`
	C        floatFlag `flag:"c,usage=semi-axis along z (default 1.5)"`
	Count    int       `flag:"count,default=2000,usage=number of sampled surface points"`
	Noise    floatFlag `flag:"noise,usage=standard deviation of gaussian noise per coordinate"`
	Seed     int       `flag:"seed,default=1,usage=random seed"`
	Spacing  floatFlag `flag:"spacing,usage=target spacing of the resampled cloud (default 0.3)"`
	Degree   int       `flag:"degree,default=6,usage=maximum harmonic degree"`
	Centered bool      `flag:"centered,usage=treat the origin as the droplet center"`
	Parallel bool      `flag:"parallel,usage=fit in parallel"`
	Config   string    `flag:"config,usage=json file of pipeline attributes; attributes it sets replace the matching flags"`
	Debug    bool      `flag:"debug"`
}

func (args *Arguments) applyDefaults() {
	for _, f := range []struct {
		value *floatFlag
		def   floatFlag
	}{
		{&args.A, 3},
		{&args.B, 2},
		{&args.C, 1.5},
		{&args.Spacing, 0.3},
	} {
		if *f.value == 0 {
			*f.value = f.def
		}
	}
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	argsParsed.applyDefaults()
	if argsParsed.Debug {
		logger = logging.NewDebugLogger("shapefit")
	}

	cfg := shape.Config{
		TargetSpacing:  float64(argsParsed.Spacing),
		MaxDegree:      argsParsed.Degree,
		AssumeCentered: argsParsed.Centered,
		Parallel:       argsParsed.Parallel,
	}
	if argsParsed.Config != "" {
		if err := mergeConfigFile(argsParsed.Config, &cfg); err != nil {
			return err
		}
	}
	if argsParsed.Count <= 0 {
		return utils.NewInvalidArgumentError("count must be positive, got %d", argsParsed.Count)
	}

	rng := rand.New(rand.NewSource(int64(argsParsed.Seed))) //nolint:gosec
	pc := pointcloud.RandomEllipsoidCloud(
		float64(argsParsed.A), float64(argsParsed.B), float64(argsParsed.C), argsParsed.Count, rng)
	pc = pointcloud.AddNoise(pc, float64(argsParsed.Noise), rng)
	logger.Debugw("generated droplet", "points", pc.Size(), "noise", float64(argsParsed.Noise))

	return runPipeline(ctx, cfg, pc, logger)
}

// mergeConfigFile replaces the fields of cfg whose attributes the file at path sets.
func mergeConfigFile(path string, cfg *shape.Config) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var attributes utils.AttributeMap
	if err := json.Unmarshal(data, &attributes); err != nil {
		return errors.Wrapf(err, "cannot parse %q", path)
	}
	fromFile, err := shape.NewConfigFromAttributes(attributes)
	if err != nil {
		return err
	}
	if attributes.Has("target_spacing") {
		cfg.TargetSpacing = fromFile.TargetSpacing
	}
	if attributes.Has("max_degree") {
		cfg.MaxDegree = fromFile.MaxDegree
	}
	if attributes.Has("assume_centered") {
		cfg.AssumeCentered = fromFile.AssumeCentered
	}
	if attributes.Has("parallel") {
		cfg.Parallel = fromFile.Parallel
	}
	return nil
}

func runPipeline(ctx context.Context, cfg shape.Config, pc pointcloud.Cloud, logger logging.Logger) error {
	pipeline, err := shape.NewPipeline(cfg, logger.Sublogger("pipeline"))
	if err != nil {
		return err
	}
	result, err := pipeline.Run(ctx, pc)
	if err != nil {
		return err
	}
	for _, warning := range result.Expansion.Warnings {
		logger.Warn(warning)
	}

	expansion := result.Expansion
	fmt.Fprintf(stdout, "ellipsoid\n%s\n\n", expansion.Ellipsoid)
	fmt.Fprintf(stdout, "coefficients\n%s\n\n", expansion.Descriptor)
	fmt.Fprintf(stdout, "power\n%s\n\n", expansion.Descriptor.PowerString())
	fmt.Fprintf(stdout, "residuals over %d points\n%s\n", result.Resampled.Size(), result.Report)
	return nil
}
