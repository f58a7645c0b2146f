package heightfield

import (
	"math"

	"github.com/tactileforge/relief/internal/mempool"
)

// gaussianKernel builds a normalized 1D Gaussian kernel for sigma.
// The radius is ceil(3*sigma), matching the effective support used by
// scipy-style filters.
func gaussianKernel(sigma float64) []float32 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float32, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = float32(w)
		sum += w
	}
	for i := range kernel {
		kernel[i] = float32(float64(kernel[i]) / sum)
	}
	return kernel
}

// GaussianSmooth returns a Gaussian-smoothed copy of f using a separable
// kernel with border clamping. sigma <= 0 returns an unmodified copy.
func GaussianSmooth(f *Field, sigma float64) *Field {
	if sigma <= 0 {
		return f.Clone()
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	w, h := f.Width, f.Height

	tmp := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(tmp)

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := f.Data[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				xi := x + k
				if xi < 0 {
					xi = 0
				} else if xi >= w {
					xi = w - 1
				}
				acc += row[xi] * kernel[k+radius]
			}
			tmp[y*w+x] = acc
		}
	}

	// Vertical pass.
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float32
			for k := -radius; k <= radius; k++ {
				yi := y + k
				if yi < 0 {
					yi = 0
				} else if yi >= h {
					yi = h - 1
				}
				acc += tmp[yi*w+x] * kernel[k+radius]
			}
			out.Data[y*w+x] = acc
		}
	}
	return out
}

// Sobel kernels in x and y.
var (
	sobelX = [3][3]float32{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float32{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// GradientMagnitude returns the Sobel gradient magnitude of f with border
// clamping.
func GradientMagnitude(f *Field) *Field {
	w, h := f.Width, f.Height
	out := New(w, h)

	clamp := func(v, hi int) int {
		if v < 0 {
			return 0
		}
		if v > hi {
			return hi
		}
		return v
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy float32
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := f.Data[clamp(y+ky, h-1)*w+clamp(x+kx, w-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			out.Data[y*w+x] = float32(math.Sqrt(float64(gx*gx + gy*gy)))
		}
	}
	return out
}

// DilateMask returns mask dilated by a square kernel of the given radius.
// Used to carve a neutral band around detected regions when comparing
// foreground and background statistics.
func DilateMask(mask []bool, w, h, radius int) []bool {
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				continue
			}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < w && ny >= 0 && ny < h {
						out[ny*w+nx] = true
					}
				}
			}
		}
	}
	return out
}
