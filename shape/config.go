// Package shape turns a droplet surface cloud into a smoothed cloud and a spherical harmonic
// shape descriptor.
package shape

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/shapefit/resample"
	"go.viam.com/shapefit/utils"
)

// MaxSupportedDegree bounds MaxDegree; factorials past this degree overflow.
const MaxSupportedDegree = 80

// Config describes one run of the shape pipeline.
type Config struct {
	TargetSpacing  float64 `json:"target_spacing"`
	MaxDegree      int     `json:"max_degree"`
	AssumeCentered bool    `json:"assume_centered,omitempty"`
	Parallel       bool    `json:"parallel,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.TargetSpacing == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "target_spacing")
	}
	if !(cfg.TargetSpacing > 0) || math.IsInf(cfg.TargetSpacing, 1) {
		return goutils.NewConfigValidationError(path,
			utils.NewInvalidArgumentError("target_spacing must be positive, got %g", cfg.TargetSpacing))
	}
	if cfg.MaxDegree < 0 || cfg.MaxDegree > MaxSupportedDegree {
		return goutils.NewConfigValidationError(path,
			utils.NewInvalidArgumentError("max_degree must be in [0, %d], got %d", MaxSupportedDegree, cfg.MaxDegree))
	}
	return nil
}

// ResampleConfig returns the part of the config the resampler needs.
func (cfg Config) ResampleConfig() resample.Config {
	return resample.Config{
		TargetSpacing:  cfg.TargetSpacing,
		AssumeCentered: cfg.AssumeCentered,
		Parallel:       cfg.Parallel,
	}
}

// NewConfigFromAttributes decodes a config from loosely typed attributes, such as a parsed
// JSON object. Unknown attributes are an error.
func NewConfigFromAttributes(attributes utils.AttributeMap) (*Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, errors.Wrap(err, "decoding shape config")
	}
	return &conf, nil
}
