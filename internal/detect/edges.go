package detect

import (
	"image"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/imgutil"
)

// SobelEdgeDetector produces a gradient-magnitude map from the luminance
// channel, normalized so the strongest edge is 1.
type SobelEdgeDetector struct {
	// PreSigma optionally denoises the luminance before the gradient.
	// Zero disables the pre-blur.
	PreSigma float64
}

// NewSobelEdgeDetector returns a detector with a light denoising blur.
func NewSobelEdgeDetector() *SobelEdgeDetector {
	return &SobelEdgeDetector{PreSigma: 0.8}
}

// DetectEdges returns the normalized Sobel gradient magnitude of img.
func (d *SobelEdgeDetector) DetectEdges(img image.Image) (*heightfield.Field, error) {
	luma := imgutil.Luma(img)
	if d.PreSigma > 0 {
		luma = heightfield.GaussianSmooth(luma, d.PreSigma)
	}

	grad := heightfield.GradientMagnitude(luma)
	_, maxV := grad.MinMax()
	if maxV > 1e-9 {
		inv := 1 / maxV
		for i := range grad.Data {
			grad.Data[i] *= inv
		}
	}
	return grad, nil
}

// EdgeDensity returns the fraction of pixels whose edge response exceeds
// the threshold. Used by mode selection.
func EdgeDensity(edges *heightfield.Field, threshold float32) float64 {
	if len(edges.Data) == 0 {
		return 0
	}
	var n int
	for _, v := range edges.Data {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(edges.Data))
}
