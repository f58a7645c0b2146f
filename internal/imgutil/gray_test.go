package imgutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactileforge/relief/internal/params"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLuma_BlackAndWhite(t *testing.T) {
	white := Luma(solidImage(4, 4, color.White))
	for _, v := range white.Data {
		assert.InDelta(t, 1.0, v, 1e-3)
	}

	black := Luma(solidImage(4, 4, color.Black))
	for _, v := range black.Data {
		assert.InDelta(t, 0.0, v, 1e-3)
	}
}

func TestPreprocessLuma_Invert(t *testing.T) {
	luma := Luma(solidImage(4, 4, color.White))
	p := params.DefaultProcessing()
	p.InvertHeights = true

	out := PreprocessLuma(luma, p)
	for _, v := range out.Data {
		assert.InDelta(t, 0.0, v, 1e-3)
	}
}

func TestPreprocessLuma_ClampRenormalizes(t *testing.T) {
	luma := Luma(solidImage(4, 4, color.Gray{Y: 128}))
	p := params.DefaultProcessing()
	p.ClampMin = 0
	p.ClampMax = 128

	out := PreprocessLuma(luma, p)
	for _, v := range out.Data {
		assert.InDelta(t, 1.0, v, 0.02) // 128 clamps to the new ceiling
	}
}

func TestPreprocessLuma_Border(t *testing.T) {
	luma := Luma(solidImage(4, 4, color.White))
	p := params.DefaultProcessing()
	p.BorderPixels = 2

	out := PreprocessLuma(luma, p)
	require.Equal(t, 8, out.Width)
	require.Equal(t, 8, out.Height)
	assert.InDelta(t, 0.0, out.At(0, 0), 1e-3)   // border at clamp floor
	assert.InDelta(t, 1.0, out.At(4, 4), 1e-3)   // original content
}

func TestResizeToGrid_PreservesAspect(t *testing.T) {
	img := solidImage(100, 50, color.White)
	out := ResizeToGrid(img, 64)
	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 32, out.Bounds().Dy())
}

func TestResizeSquare(t *testing.T) {
	img := solidImage(100, 50, color.White)
	out := ResizeSquare(img, 32)
	assert.Equal(t, 32, out.Bounds().Dx())
	assert.Equal(t, 32, out.Bounds().Dy())
}

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("photo.JPG"))
	assert.True(t, IsSupportedImage("scan.tiff"))
	assert.False(t, IsSupportedImage("notes.txt"))
	assert.False(t, IsSupportedImage("archive.gif"))
}

func TestLoadImage_Missing(t *testing.T) {
	_, _, err := LoadImage("")
	require.Error(t, err)

	_, _, err = LoadImage("/nonexistent/image.png")
	require.Error(t, err)

	var ierr *ImageError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "load", ierr.Operation)
}
