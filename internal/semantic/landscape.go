package semantic

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// landscapeBase is the raw height of unremarkable terrain, below which
// suppressed sky sinks and above which salient regions rise.
const landscapeBase = 0.3

// processLandscape builds the landscape height field:
//
//	base + saliency*emphasis - sky_mask*suppression
//
// clipped to non-negative. The sky mask combines a low-saturation blue
// color match with a top-of-frame position weight.
func (e *Engine) processLandscape(img image.Image, sem params.Semantic) (*heightfield.Field, []string, error) {
	saliency, err := e.providers.Saliency.DetectSaliency(img)
	if err != nil {
		return nil, nil, err
	}

	emphasis := sem.SubjectEmphasis / 100
	suppress := sem.BackgroundSuppression / 100

	raw := heightfield.NewUniform(saliency.Width, saliency.Height, landscapeBase)
	raw.AddScaled(saliency, float32(emphasis))

	sky := skyMask(img)
	raw.AddScaled(sky, float32(-suppress))
	raw.ClipLow(0)

	var warnings []string
	if coverage := maskCoverage(sky); coverage > 0.9 {
		warnings = append(warnings, "image is almost entirely sky, relief will be mostly flat")
	}
	return raw, warnings, nil
}

// skyMask scores each pixel as sky: a low-saturation blue color match
// weighted linearly toward the top of the frame. Values are in [0, 1].
func skyMask(img image.Image) *heightfield.Field {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := heightfield.New(w, h)

	for y := 0; y < h; y++ {
		// Position weight fades to zero at 3/4 of the frame height.
		weight := 1 - float64(y)/(0.75*float64(h))
		if weight <= 0 {
			continue
		}
		for x := 0; x < w; x++ {
			c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			if !ok {
				continue
			}
			hue, sat, val := c.Hsv()
			if hue >= 180 && hue <= 260 && sat <= 0.6 && val >= 0.35 {
				mask.Set(x, y, float32(weight))
			}
		}
	}
	return mask
}

// maskCoverage returns the fraction of pixels with a positive mask score.
func maskCoverage(mask *heightfield.Field) float64 {
	if len(mask.Data) == 0 {
		return 0
	}
	var n int
	for _, v := range mask.Data {
		if v > 0 {
			n++
		}
	}
	return float64(n) / float64(len(mask.Data))
}
