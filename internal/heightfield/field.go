// Package heightfield provides the 2D relief-height grid and the float
// filters applied to it.
//
// A Field is row-major, width*height float32, matching the probability-map
// layout used throughout the detectors. Raw fields carry arbitrary scale;
// normalized fields are always in [0, 1].
package heightfield

import (
	"fmt"
	"math"
)

// Field is a 2D grid of relief heights.
type Field struct {
	Width  int
	Height int
	Data   []float32
}

// New creates a zero-initialized field of the given size.
func New(width, height int) *Field {
	return &Field{Width: width, Height: height, Data: make([]float32, width*height)}
}

// NewUniform creates a field filled with the given value.
func NewUniform(width, height int, v float32) *Field {
	f := New(width, height)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

// FromData wraps an existing row-major buffer. The buffer length must be
// width*height.
func FromData(width, height int, data []float32) (*Field, error) {
	if len(data) != width*height {
		return nil, fmt.Errorf("heightfield: data length %d does not match %dx%d", len(data), width, height)
	}
	return &Field{Width: width, Height: height, Data: data}, nil
}

// At returns the value at (x, y). Bounds are the caller's responsibility.
func (f *Field) At(x, y int) float32 { return f.Data[y*f.Width+x] }

// Set stores v at (x, y).
func (f *Field) Set(x, y int, v float32) { f.Data[y*f.Width+x] = v }

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := New(f.Width, f.Height)
	copy(c.Data, f.Data)
	return c
}

// Mean returns the arithmetic mean of all values.
func (f *Field) Mean() float32 {
	if len(f.Data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.Data {
		sum += float64(v)
	}
	return float32(sum / float64(len(f.Data)))
}

// MinMax returns the minimum and maximum values.
func (f *Field) MinMax() (minV, maxV float32) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	minV, maxV = f.Data[0], f.Data[0]
	for _, v := range f.Data[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}

// MaskedMean returns the mean over pixels where mask is true. The second
// return value is false when the mask selects no pixels.
func (f *Field) MaskedMean(mask []bool) (float32, bool) {
	var sum float64
	var n int
	for i, v := range f.Data {
		if mask[i] {
			sum += float64(v)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float32(sum / float64(n)), true
}

// AddScaled adds scale*src into f in place. Sizes must match.
func (f *Field) AddScaled(src *Field, scale float32) {
	for i, v := range src.Data {
		f.Data[i] += scale * v
	}
}

// ClipLow clamps all values below lo up to lo in place.
func (f *Field) ClipLow(lo float32) {
	for i, v := range f.Data {
		if v < lo {
			f.Data[i] = lo
		}
	}
}

// Clip clamps all values to [lo, hi] in place.
func (f *Field) Clip(lo, hi float32) {
	for i, v := range f.Data {
		switch {
		case v < lo:
			f.Data[i] = lo
		case v > hi:
			f.Data[i] = hi
		}
	}
}

// IsFlat reports whether max-min is below eps.
func (f *Field) IsFlat(eps float32) bool {
	minV, maxV := f.MinMax()
	return maxV-minV < eps
}

// StdDev returns the population standard deviation of all values.
func (f *Field) StdDev() float32 {
	if len(f.Data) == 0 {
		return 0
	}
	mean := float64(f.Mean())
	var variance float64
	for _, v := range f.Data {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(f.Data))
	return float32(math.Sqrt(variance))
}
