package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/params"
)

func TestBuiltinPresetsAreValid(t *testing.T) {
	for _, p := range Builtin() {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description, p.Name)
		assert.NoError(t, p.Params.Validate(), p.Name)
	}
}

func TestBuiltinSortedAndComplete(t *testing.T) {
	names := Names()
	require.Contains(t, names, "default")
	require.Contains(t, names, "portrait")
	require.Contains(t, names, "fine-detail")
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestGetUnknownPreset(t *testing.T) {
	_, err := Get("solarpunk")
	assert.ErrorContains(t, err, "unknown preset")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, err := Get("portrait")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "portrait.yaml")
	require.NoError(t, Save(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadPartialPresetKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := "name: shallow\nparams:\n  physical:\n    relief_depth_mm: 1.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shallow", p.Name)
	assert.Equal(t, "auto", p.Mode)
	assert.InDelta(t, 1.5, p.Params.Physical.ReliefDepthMM, 1e-9)
	assert.Equal(t, params.DefaultProcessing().Resolution, p.Params.Processing.Resolution)
}

func TestLoadRejectsInvalidParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "name: bad\nparams:\n  physical:\n    width_mm: 9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	var verr *params.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoadRequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: text\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "no name")
}
