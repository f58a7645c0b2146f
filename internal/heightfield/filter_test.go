package heightfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianSmooth_ZeroSigmaIsNoop(t *testing.T) {
	f := New(5, 5)
	f.Set(2, 2, 1)

	out := GaussianSmooth(f, 0)
	assert.Equal(t, f.Data, out.Data)

	// Original is untouched (filter returns a copy).
	out.Set(0, 0, 9)
	assert.Equal(t, float32(0), f.At(0, 0))
}

func TestGaussianSmooth_SpreadsAndPreservesMass(t *testing.T) {
	f := New(9, 9)
	f.Set(4, 4, 1)

	out := GaussianSmooth(f, 1.0)

	// Peak is reduced, neighbors receive weight.
	assert.Less(t, out.At(4, 4), float32(1))
	assert.Greater(t, out.At(4, 4), out.At(3, 4))
	assert.Greater(t, out.At(3, 4), float32(0))

	// Kernel is normalized: total mass is preserved away from borders.
	var sum float64
	for _, v := range out.Data {
		sum += float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}

func TestGaussianSmooth_FlatStaysFlat(t *testing.T) {
	f := NewUniform(8, 8, 0.42)
	out := GaussianSmooth(f, 2.5)
	for i, v := range out.Data {
		require.InDelta(t, 0.42, v, 1e-4, "pixel %d", i)
	}
}

func TestGradientMagnitude_FlatIsZero(t *testing.T) {
	f := NewUniform(6, 6, 0.5)
	out := GradientMagnitude(f)
	for _, v := range out.Data {
		assert.Equal(t, float32(0), v)
	}
}

func TestGradientMagnitude_StepEdge(t *testing.T) {
	// Vertical step edge: left half 0, right half 1.
	f := New(8, 8)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			f.Set(x, y, 1)
		}
	}

	out := GradientMagnitude(f)

	// Gradient peaks along the step, zero far from it.
	assert.Greater(t, out.At(4, 4), float32(0))
	assert.Equal(t, float32(0), out.At(1, 4))
	assert.Equal(t, float32(0), out.At(7, 4))
}

func TestDilateMask(t *testing.T) {
	mask := make([]bool, 25)
	mask[2*5+2] = true

	out := DilateMask(mask, 5, 5, 1)

	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			assert.True(t, out[y*5+x], "(%d,%d)", x, y)
		}
	}
	assert.False(t, out[0])
	assert.False(t, out[24])
}
