// Package pipeline wires the full image-to-mesh flow: mode selection,
// semantic height-field generation, post-processing, mesh generation and
// validation.
//
// A Pipeline is built once and is safe for concurrent use; detector
// handles are shared read-only across parallel invocations.
package pipeline

import (
	"fmt"

	"github.com/tactileforge/relief/internal/detect"
	"github.com/tactileforge/relief/internal/mesh"
	"github.com/tactileforge/relief/internal/params"
	"github.com/tactileforge/relief/internal/semantic"
)

// Config collects everything a pipeline needs.
type Config struct {
	Params    params.All
	Detector  detect.Config
	Validator mesh.ValidatorConfig

	// Mode forces a processor; ModeAuto runs the selector per image.
	Mode semantic.Mode

	// AutoRepair runs the mesh repair pass when validation finds
	// topology or orientation defects.
	AutoRepair bool
}

// DefaultConfig returns a pipeline configuration with library defaults.
func DefaultConfig() Config {
	return Config{
		Params:    params.Default(),
		Detector:  detect.DefaultConfig(),
		Validator: mesh.DefaultValidatorConfig(),
		Mode:      semantic.ModeAuto,
	}
}

// Pipeline is the assembled processing chain.
type Pipeline struct {
	cfg    Config
	engine *semantic.Engine
}

// Builder assembles a Pipeline step by step.
type Builder struct {
	cfg Config
	err error
}

// NewBuilder starts a builder from the default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithParams sets the generation parameters.
func (b *Builder) WithParams(p params.All) *Builder {
	b.cfg.Params = p
	return b
}

// WithDetector sets the detector configuration.
func (b *Builder) WithDetector(d detect.Config) *Builder {
	b.cfg.Detector = d
	return b
}

// WithValidator sets the mesh validation thresholds.
func (b *Builder) WithValidator(v mesh.ValidatorConfig) *Builder {
	b.cfg.Validator = v
	return b
}

// WithMode forces a processor mode.
func (b *Builder) WithMode(m semantic.Mode) *Builder {
	b.cfg.Mode = m
	return b
}

// WithModeName parses and forces a processor mode.
func (b *Builder) WithModeName(name string) *Builder {
	m, err := semantic.ParseMode(name)
	if err != nil && b.err == nil {
		b.err = err
	}
	b.cfg.Mode = m
	return b
}

// WithAutoRepair enables the best-effort mesh repair pass.
func (b *Builder) WithAutoRepair(on bool) *Builder {
	b.cfg.AutoRepair = on
	return b
}

// Build validates the configuration and constructs the pipeline,
// initializing detector backends once.
func (b *Builder) Build() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline configuration: %w", err)
	}

	providers, err := detect.NewProviders(b.cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("initialize detectors: %w", err)
	}

	return &Pipeline{
		cfg:    b.cfg,
		engine: semantic.NewEngine(providers),
	}, nil
}

// New builds a pipeline directly from a configuration.
func New(cfg Config) (*Pipeline, error) {
	return NewBuilder().
		WithParams(cfg.Params).
		WithDetector(cfg.Detector).
		WithValidator(cfg.Validator).
		WithMode(cfg.Mode).
		WithAutoRepair(cfg.AutoRepair).
		Build()
}
