package detect

import (
	"image"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/imgutil"
)

// AdaptiveTextDetector marks glyph pixels with a local-mean adaptive
// threshold, which separates dark strokes from both light and unevenly
// lit backgrounds.
type AdaptiveTextDetector struct {
	// Window is the side of the local-mean neighborhood, forced odd.
	Window int
	// C is subtracted from the local mean before comparison; larger
	// values reject low-contrast noise.
	C float32
}

// NewAdaptiveTextDetector returns a detector with the given window and
// offset, substituting defaults for non-positive values.
func NewAdaptiveTextDetector(window int, c float32) *AdaptiveTextDetector {
	if window <= 0 {
		window = 11
	}
	if c <= 0 {
		c = 0.02
	}
	return &AdaptiveTextDetector{Window: window, C: c}
}

// DetectTextRegions returns a 0/1 mask field where 1 marks glyph pixels.
func (d *AdaptiveTextDetector) DetectTextRegions(img image.Image) (*heightfield.Field, error) {
	luma := imgutil.Luma(img)
	mask := imgutil.AdaptiveMeanThreshold(luma, d.Window, d.C)

	out := heightfield.New(luma.Width, luma.Height)
	for i, on := range mask {
		if on {
			out.Data[i] = 1
		}
	}
	return out, nil
}
