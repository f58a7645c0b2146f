// Package config defines the application configuration and loads it from
// files, environment variables and defaults.
package config

import (
	"fmt"
	"runtime"

	"github.com/tactileforge/relief/internal/detect"
	"github.com/tactileforge/relief/internal/mesh"
	"github.com/tactileforge/relief/internal/params"
)

// Config is the complete application configuration.
type Config struct {
	Params    params.All          `mapstructure:"params" yaml:"params" json:"params"`
	Detector  detect.Config       `mapstructure:"detector" yaml:"detector" json:"detector"`
	Validator mesh.ValidatorConfig `mapstructure:"validator" yaml:"validator" json:"validator"`
	Output    OutputConfig        `mapstructure:"output" yaml:"output" json:"output"`
	Batch     BatchConfig         `mapstructure:"batch" yaml:"batch" json:"batch"`
	Logging   LoggingConfig       `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// OutputConfig controls mesh export.
type OutputConfig struct {
	// BinarySTL selects binary STL output instead of ASCII.
	BinarySTL bool `mapstructure:"binary_stl" yaml:"binary_stl" json:"binary_stl"`

	// ReportJSON writes the validation report next to the mesh.
	ReportJSON bool `mapstructure:"report_json" yaml:"report_json" json:"report_json"`
}

// BatchConfig controls parallel batch processing.
type BatchConfig struct {
	// Workers is the number of parallel pipeline instances; zero means
	// one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// ContinueOnError keeps a batch running past per-image failures.
	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// EffectiveWorkers resolves the worker count.
func (b BatchConfig) EffectiveWorkers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is json or text.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Params:    params.Default(),
		Detector:  detect.DefaultConfig(),
		Validator: mesh.DefaultValidatorConfig(),
		Output:    OutputConfig{},
		Batch:     BatchConfig{ContinueOnError: true},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch workers must not be negative, got %d", c.Batch.Workers)
	}
	return nil
}
