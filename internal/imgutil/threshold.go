package imgutil

import (
	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/mempool"
)

const otsuBins = 256

// OtsuThreshold computes the Otsu threshold of a [0,1] field, maximizing
// between-class variance over a 256-bin histogram.
func OtsuThreshold(f *heightfield.Field) float32 {
	if len(f.Data) == 0 {
		return 0.5
	}

	histogram := make([]int, otsuBins)
	for _, v := range f.Data {
		bin := int(v * float32(otsuBins-1))
		if bin < 0 {
			bin = 0
		} else if bin >= otsuBins {
			bin = otsuBins - 1
		}
		histogram[bin]++
	}

	totalPixels := len(f.Data)
	var totalMean float32
	for i := 0; i < otsuBins; i++ {
		totalMean += float32(i) * float32(histogram[i])
	}
	totalMean /= float32(totalPixels)

	var maxVariance float32
	bestThreshold := 0
	var sumB float32
	wB := 0

	for t := 0; t < otsuBins; t++ {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := totalPixels - wB
		if wF == 0 {
			break
		}
		sumB += float32(t) * float32(histogram[t])
		meanB := sumB / float32(wB)
		meanF := (totalMean*float32(totalPixels) - sumB) / float32(wF)
		variance := float32(wB) * float32(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			bestThreshold = t
		}
	}

	return float32(bestThreshold) / float32(otsuBins-1)
}

// BinarizeAbove returns a mask that is true where the field is >= t.
func BinarizeAbove(f *heightfield.Field, t float32) []bool {
	mask := make([]bool, len(f.Data))
	for i, v := range f.Data {
		if v >= t {
			mask[i] = true
		}
	}
	return mask
}

// AdaptiveMeanThreshold computes a locally-thresholded inverse binary mask:
// a pixel is true when it is darker than its window mean minus c. This
// matches the inverse-binary adaptive threshold used to lift dark glyphs
// off light paper. The window must be odd; an integral image keeps the
// local mean O(1) per pixel.
func AdaptiveMeanThreshold(f *heightfield.Field, window int, c float32) []bool {
	w, h := f.Width, f.Height
	if window%2 == 0 {
		window++
	}
	radius := window / 2

	// Summed-area table with one row/col of zero padding.
	integral := mempool.GetFloat32((w + 1) * (h + 1))
	defer mempool.PutFloat32(integral)
	iw := w + 1
	for y := 1; y <= h; y++ {
		var rowSum float32
		for x := 1; x <= w; x++ {
			rowSum += f.Data[(y-1)*w+(x-1)]
			integral[y*iw+x] = integral[(y-1)*iw+x] + rowSum
		}
	}

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0 := max(0, x-radius)
			y0 := max(0, y-radius)
			x1 := min(w-1, x+radius)
			y1 := min(h-1, y+radius)

			area := float32((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*iw+(x1+1)] - integral[y0*iw+(x1+1)] -
				integral[(y1+1)*iw+x0] + integral[y0*iw+x0]
			localMean := sum / area

			if f.Data[y*w+x] < localMean-c {
				mask[y*w+x] = true
			}
		}
	}
	return mask
}

// MaskCoverage returns the fraction of true pixels in the mask.
func MaskCoverage(mask []bool) float64 {
	if len(mask) == 0 {
		return 0
	}
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return float64(n) / float64(len(mask))
}
