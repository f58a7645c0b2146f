package imgutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/heightfield"
)

func TestOtsuThreshold_Bimodal(t *testing.T) {
	// Half the pixels at 0.1, half at 0.9: threshold separates the modes.
	f := heightfield.New(10, 10)
	for i := range f.Data {
		if i < 50 {
			f.Data[i] = 0.1
		} else {
			f.Data[i] = 0.9
		}
	}

	th := OtsuThreshold(f)
	assert.Greater(t, th, float32(0.1))
	assert.Less(t, th, float32(0.9))
}

func TestBinarizeAbove(t *testing.T) {
	f := heightfield.New(3, 1)
	f.Data = []float32{0.2, 0.5, 0.8}

	mask := BinarizeAbove(f, 0.5)
	assert.Equal(t, []bool{false, true, true}, mask)
}

func TestAdaptiveMeanThreshold_DarkGlyphOnLightPaper(t *testing.T) {
	// Light background with a dark 3x3 blob in the middle.
	f := heightfield.NewUniform(15, 15, 0.9)
	for y := 6; y <= 8; y++ {
		for x := 6; x <= 8; x++ {
			f.Set(x, y, 0.1)
		}
	}

	mask := AdaptiveMeanThreshold(f, 11, 0.02)

	require.True(t, mask[7*15+7], "blob center should be foreground")
	assert.False(t, mask[1*15+1], "background corner should not be foreground")
}

func TestAdaptiveMeanThreshold_FlatFieldIsEmpty(t *testing.T) {
	f := heightfield.NewUniform(12, 12, 0.5)
	mask := AdaptiveMeanThreshold(f, 11, 0.02)
	assert.InDelta(t, 0.0, MaskCoverage(mask), 1e-9)
}

func TestMaskCoverage(t *testing.T) {
	assert.InDelta(t, 0.5, MaskCoverage([]bool{true, false, true, false}), 1e-9)
	assert.Zero(t, MaskCoverage(nil))
}
