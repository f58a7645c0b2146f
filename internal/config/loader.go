package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without
	// extension).
	ConfigFileName = "relief"

	// EnvPrefix is the prefix for environment variables, e.g.
	// RELIEF_PARAMS_PROCESSING_RESOLUTION.
	EnvPrefix = "RELIEF"
)

// Loader resolves configuration from a file, environment variables and
// built-in defaults, in that precedence order below explicit flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so cobra flag
// bindings participate in precedence.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewIsolatedLoader creates a loader with a private viper instance,
// useful in tests that must not leak global state.
func NewIsolatedLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load resolves the configuration from the search paths and validates it.
// A missing config file is not an error; defaults and environment
// variables apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile resolves the configuration from a specific file.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Set overrides a configuration key, taking precedence over files and
// environment variables.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// GetViper exposes the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// ConfigFileUsed returns the path of the config file that was read.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "relief"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "relief"))
	}
	l.v.AddConfigPath("/etc/relief")
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	d := Default()

	l.v.SetDefault("params.physical.width_mm", d.Params.Physical.WidthMM)
	l.v.SetDefault("params.physical.relief_depth_mm", d.Params.Physical.ReliefDepthMM)
	l.v.SetDefault("params.physical.base_thickness_mm", d.Params.Physical.BaseThicknessMM)

	l.v.SetDefault("params.processing.resolution", d.Params.Processing.Resolution)
	l.v.SetDefault("params.processing.smoothing", d.Params.Processing.Smoothing)
	l.v.SetDefault("params.processing.edge_strength", d.Params.Processing.EdgeStrength)
	l.v.SetDefault("params.processing.contrast", d.Params.Processing.Contrast)
	l.v.SetDefault("params.processing.clamp_min", d.Params.Processing.ClampMin)
	l.v.SetDefault("params.processing.clamp_max", d.Params.Processing.ClampMax)
	l.v.SetDefault("params.processing.border_pixels", d.Params.Processing.BorderPixels)
	l.v.SetDefault("params.processing.invert_heights", d.Params.Processing.InvertHeights)

	l.v.SetDefault("params.semantic.subject_emphasis", d.Params.Semantic.SubjectEmphasis)
	l.v.SetDefault("params.semantic.background_suppression", d.Params.Semantic.BackgroundSuppression)
	l.v.SetDefault("params.semantic.feature_sharpness", d.Params.Semantic.FeatureSharpness)
	l.v.SetDefault("params.semantic.text_height", d.Params.Semantic.TextHeight)
	l.v.SetDefault("params.semantic.background_height", d.Params.Semantic.BackgroundHeight)
	l.v.SetDefault("params.semantic.edge_emphasis", d.Params.Semantic.EdgeEmphasis)
	l.v.SetDefault("params.semantic.region_contrast", d.Params.Semantic.RegionContrast)

	l.v.SetDefault("detector.models_dir", d.Detector.ModelsDir)
	l.v.SetDefault("detector.face_backend", d.Detector.FaceBackend)
	l.v.SetDefault("detector.min_face_confidence", d.Detector.MinFaceConfidence)
	l.v.SetDefault("detector.text_window", d.Detector.TextWindow)
	l.v.SetDefault("detector.text_c", d.Detector.TextC)

	l.v.SetDefault("validator.min_feature_size_mm", d.Validator.MinFeatureSizeMM)
	l.v.SetDefault("validator.bed_width_mm", d.Validator.BedWidthMM)
	l.v.SetDefault("validator.bed_depth_mm", d.Validator.BedDepthMM)
	l.v.SetDefault("validator.self_intersection_limit", d.Validator.SelfIntersectionLimit)

	l.v.SetDefault("output.binary_stl", d.Output.BinarySTL)
	l.v.SetDefault("output.report_json", d.Output.ReportJSON)

	l.v.SetDefault("batch.workers", d.Batch.Workers)
	l.v.SetDefault("batch.continue_on_error", d.Batch.ContinueOnError)

	l.v.SetDefault("logging.level", d.Logging.Level)
	l.v.SetDefault("logging.format", d.Logging.Format)
}

// GetConfigSearchPaths returns the paths searched for relief.yaml.
func GetConfigSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home, filepath.Join(home, ".config", "relief"))
	}
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "relief"))
	}
	return append(paths, "/etc/relief")
}
