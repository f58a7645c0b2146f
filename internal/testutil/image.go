// Package testutil provides synthetic images and assertion helpers shared
// by the package tests.
package testutil

import (
	"image"
	"image/color"
)

// FlatImage returns a w x h image filled with a single gray level.
func FlatImage(w, h int, level uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return img
}

// DiskImage returns a dark image with a bright centered disk. The disk
// radius is frac * min(w, h) / 2.
func DiskImage(w, h int, frac float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	r := frac * float64(min(w, h)) / 2
	r2 := r * r
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				img.SetGray(x, y, color.Gray{Y: 230})
			} else {
				img.SetGray(x, y, color.Gray{Y: 25})
			}
		}
	}
	return img
}

// StripeImage returns alternating dark and light vertical bars of the
// given period, resembling printed text columns.
func StripeImage(w, h, period int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/period)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 235})
			} else {
				img.SetGray(x, y, color.Gray{Y: 20})
			}
		}
	}
	return img
}

// BoxesImage returns a light background with two filled dark rectangles,
// resembling a block diagram.
func BoxesImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 240
	}
	fill := func(x0, y0, x1, y1 int, v uint8) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
	fill(w/8, h/8, w/2-w/16, h/2, 40)
	fill(w/2+w/16, h/2, w-w/4, h-h/4, 70)
	return img
}

// GradientImage returns a left-to-right dark-to-light ramp.
func GradientImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / max(w-1, 1))})
		}
	}
	return img
}

// SkylineImage returns a blue upper half over a textured dark lower half,
// resembling a landscape photo with sky.
func SkylineImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < h/2 {
				img.SetNRGBA(x, y, color.NRGBA{R: 110, G: 160, B: 235, A: 255})
			} else {
				v := uint8(60 + 40*((x+y)%3))
				img.SetNRGBA(x, y, color.NRGBA{R: v, G: v - 20, B: v - 40, A: 255})
			}
		}
	}
	return img
}
