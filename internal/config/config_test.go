package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/params"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "chatty"
	assert.ErrorContains(t, cfg.Validate(), "log level")

	cfg = Default()
	cfg.Logging.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "log format")
}

func TestValidateRejectsNegativeWorkers(t *testing.T) {
	cfg := Default()
	cfg.Batch.Workers = -2
	assert.ErrorContains(t, cfg.Validate(), "workers")
}

func TestValidatePropagatesParamErrors(t *testing.T) {
	cfg := Default()
	cfg.Params.Physical.WidthMM = 10

	var verr *params.ValidationError
	assert.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "width_mm", verr.Field)
}

func TestEffectiveWorkers(t *testing.T) {
	assert.Equal(t, 4, BatchConfig{Workers: 4}.EffectiveWorkers())
	assert.Greater(t, BatchConfig{}.EffectiveWorkers(), 0)
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewIsolatedLoader().LoadWithFile(writeConfig(t, "logging:\n  level: info\n"))
	require.NoError(t, err)
	assert.Equal(t, params.Default(), cfg.Params)
	assert.Equal(t, "auto", cfg.Detector.FaceBackend)
	assert.Equal(t, 200_000, cfg.Validator.SelfIntersectionLimit)
}

func TestLoaderReadsFile(t *testing.T) {
	content := "params:\n" +
		"  physical:\n" +
		"    width_mm: 200\n" +
		"  processing:\n" +
		"    resolution: 64\n" +
		"logging:\n" +
		"  format: json\n"
	cfg, err := NewIsolatedLoader().LoadWithFile(writeConfig(t, content))
	require.NoError(t, err)

	assert.InDelta(t, 200, cfg.Params.Physical.WidthMM, 1e-9)
	assert.Equal(t, 64, cfg.Params.Processing.Resolution)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched keys keep defaults.
	assert.InDelta(t, 3, cfg.Params.Physical.ReliefDepthMM, 1e-9)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	content := "params:\n  processing:\n    resolution: 100000\n"
	_, err := NewIsolatedLoader().LoadWithFile(writeConfig(t, content))
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	_, err := NewIsolatedLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestLoaderEnvironmentOverride(t *testing.T) {
	t.Setenv("RELIEF_PARAMS_PROCESSING_RESOLUTION", "32")

	cfg, err := NewIsolatedLoader().LoadWithFile(writeConfig(t, "logging:\n  level: info\n"))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Params.Processing.Resolution)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relief.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
