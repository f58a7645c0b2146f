package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestPhysical_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Physical)
		field  string
	}{
		{"width too small", func(p *Physical) { p.WidthMM = 40 }, "width_mm"},
		{"width too large", func(p *Physical) { p.WidthMM = 400 }, "width_mm"},
		{"relief too shallow", func(p *Physical) { p.ReliefDepthMM = 0.2 }, "relief_depth_mm"},
		{"relief too deep", func(p *Physical) { p.ReliefDepthMM = 12 }, "relief_depth_mm"},
		{"zero base", func(p *Physical) { p.BaseThicknessMM = 0 }, "base_thickness_mm"},
		{"negative base", func(p *Physical) { p.BaseThicknessMM = -1 }, "base_thickness_mm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPhysical()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPhysical_HeightBounds(t *testing.T) {
	p := Physical{WidthMM: 100, ReliefDepthMM: 4, BaseThicknessMM: 2}
	assert.InDelta(t, 2.0, p.MinHeightMM(), 1e-9)
	assert.InDelta(t, 6.0, p.MaxHeightMM(), 1e-9)
}

func TestProcessing_Validate(t *testing.T) {
	p := DefaultProcessing()
	p.Resolution = 1
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution")

	p = DefaultProcessing()
	p.ClampMin = 200
	p.ClampMax = 100
	err = p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clamp_min")

	p = DefaultProcessing()
	p.Smoothing = 0 // sigma=0 is a no-op, not an error
	assert.NoError(t, p.Validate())
}

func TestSemantic_Validate(t *testing.T) {
	s := DefaultSemantic()
	s.SubjectEmphasis = 250
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject_emphasis")

	s = DefaultSemantic()
	s.BackgroundSuppression = -1
	require.Error(t, s.Validate())

	// Boundary values are accepted.
	s = DefaultSemantic()
	s.SubjectEmphasis = 0
	s.BackgroundSuppression = 100
	assert.NoError(t, s.Validate())
}
