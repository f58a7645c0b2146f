package imgutil

import (
	"image"

	"github.com/anthonynsimon/bild/effect"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// Luma converts an image to a luminance field with values in [0, 1].
func Luma(img image.Image) *heightfield.Field {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	f := heightfield.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := gray.At(b.Min.X+x, b.Min.Y+y).RGBA()
			f.Set(x, y, float32(r)/65535.0)
		}
	}
	return f
}

// PreprocessLuma applies the grayscale pre-processing controls to a
// luminance field: value clamping with renormalization, optional border
// padding at the clamp floor, and optional inversion.
func PreprocessLuma(luma *heightfield.Field, p params.Processing) *heightfield.Field {
	lo := float32(p.ClampMin) / 255.0
	hi := float32(p.ClampMax) / 255.0

	out := luma
	if p.BorderPixels > 0 {
		out = padField(luma, p.BorderPixels, lo)
	} else {
		out = luma.Clone()
	}

	span := hi - lo
	for i, v := range out.Data {
		if v < lo {
			v = lo
		} else if v > hi {
			v = hi
		}
		v = (v - lo) / span
		if p.InvertHeights {
			v = 1 - v
		}
		out.Data[i] = v
	}
	return out
}

// padField surrounds a field with a constant border.
func padField(f *heightfield.Field, border int, fill float32) *heightfield.Field {
	out := heightfield.NewUniform(f.Width+2*border, f.Height+2*border, fill)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			out.Set(x+border, y+border, f.At(x, y))
		}
	}
	return out
}
