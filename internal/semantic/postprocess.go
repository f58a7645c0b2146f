package semantic

import (
	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// flatEps is the span below which a field counts as perfectly flat.
const flatEps = 1e-6

// Apply post-processes a raw height field into a normalized one. The step
// order is fixed and load-bearing:
//
//  1. Gaussian smoothing (sigma 0 is a no-op).
//  2. Edge enhancement: add edge_strength times the gradient magnitude
//     of the smoothed field. Always added, never subtracted.
//  3. Contrast scaling about the field mean.
//  4. Min-max normalization to [0, 1]; a flat field becomes uniform 0.5.
func Apply(raw *heightfield.Field, proc params.Processing) *heightfield.Field {
	f := heightfield.GaussianSmooth(raw, proc.Smoothing)

	if proc.EdgeStrength > 0 {
		grad := heightfield.GradientMagnitude(f)
		f.AddScaled(grad, float32(proc.EdgeStrength/100))
	}

	if factor := float32(proc.Contrast / 100); factor != 1 {
		mean := f.Mean()
		for i, v := range f.Data {
			f.Data[i] = (v-mean)*factor + mean
		}
	}

	minV, maxV := f.MinMax()
	span := maxV - minV
	if span < flatEps {
		for i := range f.Data {
			f.Data[i] = 0.5
		}
		return f
	}
	inv := 1 / span
	for i, v := range f.Data {
		f.Data[i] = (v - minV) * inv
	}
	return f
}
