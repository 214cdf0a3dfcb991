package shape

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/shapefit/logging"
	"go.viam.com/shapefit/pointcloud"
	"go.viam.com/shapefit/resample"
)

// Result is the output of one pipeline run.
type Result struct {
	Resampled pointcloud.Cloud
	Expansion *Expansion
	Report    Report
}

// A Pipeline resamples a cloud to uniform angular density and then expands it.
type Pipeline struct {
	cfg      Config
	expander *Expander
	logger   logging.Logger
}

// NewPipeline validates cfg and returns a Pipeline for it. A nil logger discards all logs.
func NewPipeline(cfg Config, logger logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("shape")
	}
	if err := cfg.Validate("shape"); err != nil {
		return nil, err
	}
	expander, err := NewExpander(cfg, logger.Sublogger("expander"))
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, expander: expander, logger: logger}, nil
}

// Run resamples pc and expands the resampled cloud. A resampling failure stops the run
// before any fitting.
func (p *Pipeline) Run(ctx context.Context, pc pointcloud.Cloud) (*Result, error) {
	start := time.Now()
	resampled, err := resample.Resample(ctx, pc, p.cfg.ResampleConfig())
	if err != nil {
		return nil, errors.Wrap(err, "resampling")
	}
	p.logger.Debugw("resampled cloud",
		"input", pc.Size(),
		"output", resampled.Size(),
		"duration", time.Since(start))

	expansion, err := p.expander.Expand(ctx, resampled)
	if err != nil {
		return nil, err
	}
	report, err := NewReport(resampled, expansion.Surface)
	if err != nil {
		return nil, err
	}
	p.logger.Infow("expanded cloud",
		"points", resampled.Size(),
		"degree", p.cfg.MaxDegree,
		"rms", report.RMS,
		"duration", time.Since(start))
	return &Result{Resampled: resampled, Expansion: expansion, Report: report}, nil
}
