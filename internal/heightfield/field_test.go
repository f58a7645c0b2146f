package heightfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromData_SizeMismatch(t *testing.T) {
	_, err := FromData(4, 4, make([]float32, 15))
	require.Error(t, err)

	f, err := FromData(4, 4, make([]float32, 16))
	require.NoError(t, err)
	assert.Equal(t, 4, f.Width)
}

func TestField_Stats(t *testing.T) {
	f := New(2, 2)
	f.Set(0, 0, 0)
	f.Set(1, 0, 1)
	f.Set(0, 1, 2)
	f.Set(1, 1, 3)

	assert.InDelta(t, 1.5, f.Mean(), 1e-6)
	minV, maxV := f.MinMax()
	assert.Equal(t, float32(0), minV)
	assert.Equal(t, float32(3), maxV)
	assert.InDelta(t, 1.118, f.StdDev(), 1e-3)
}

func TestField_MaskedMean(t *testing.T) {
	f := NewUniform(3, 1, 2)
	f.Set(0, 0, 8)

	mask := []bool{true, false, false}
	mean, ok := f.MaskedMean(mask)
	require.True(t, ok)
	assert.InDelta(t, 8, mean, 1e-6)

	_, ok = f.MaskedMean([]bool{false, false, false})
	assert.False(t, ok)
}

func TestField_Clip(t *testing.T) {
	f := New(3, 1)
	f.Data[0] = -1
	f.Data[1] = 0.5
	f.Data[2] = 2

	f.Clip(0, 1)
	assert.Equal(t, []float32{0, 0.5, 1}, f.Data)
}

func TestField_IsFlat(t *testing.T) {
	assert.True(t, NewUniform(4, 4, 0.7).IsFlat(1e-6))

	f := NewUniform(4, 4, 0.7)
	f.Set(2, 2, 0.8)
	assert.False(t, f.IsFlat(1e-6))
}

func TestField_AddScaled(t *testing.T) {
	f := NewUniform(2, 1, 1)
	g := NewUniform(2, 1, 2)
	f.AddScaled(g, 0.5)
	assert.Equal(t, []float32{2, 2}, f.Data)
}
