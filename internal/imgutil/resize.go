package imgutil

import (
	"image"

	"github.com/disintegration/imaging"
)

// ResizeToGrid resizes an image so its width equals resolution, preserving
// aspect ratio with Lanczos resampling. The resulting height is clamped to
// at least 2 rows so the mesh generator always has cells to triangulate.
func ResizeToGrid(img image.Image, resolution int) image.Image {
	b := img.Bounds()
	aspect := float64(b.Dy()) / float64(b.Dx())
	height := int(float64(resolution)*aspect + 0.5)
	if height < 2 {
		height = 2
	}
	return imaging.Resize(img, resolution, height, imaging.Lanczos)
}

// ResizeSquare resizes an image to resolution x resolution, ignoring
// aspect ratio.
func ResizeSquare(img image.Image, resolution int) image.Image {
	return imaging.Resize(img, resolution, resolution, imaging.Lanczos)
}
