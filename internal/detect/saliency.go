package detect

import (
	"image"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/imgutil"
)

// saliencyWorkSize is the square working resolution for the spectral
// analysis. Small on purpose: saliency is a coarse importance prior, and
// the residual is sharper at low resolution.
const saliencyWorkSize = 64

// SpectralResidualSaliency implements the spectral-residual saliency
// method of Hou & Zhang: the difference between the log amplitude
// spectrum and its local average marks the "novel" parts of the image.
type SpectralResidualSaliency struct{}

// NewSpectralResidualSaliency returns the detector.
func NewSpectralResidualSaliency() *SpectralResidualSaliency {
	return &SpectralResidualSaliency{}
}

// DetectSaliency returns a [0, 1] importance map at the input resolution.
func (s *SpectralResidualSaliency) DetectSaliency(img image.Image) (*heightfield.Field, error) {
	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()

	small := imgutil.Luma(imgutil.ResizeSquare(img, saliencyWorkSize))
	n := saliencyWorkSize

	// A flat input has no residual; normalizing its numerical ripple
	// would fabricate structure.
	if small.IsFlat(1e-4) {
		return heightfield.New(origW, origH), nil
	}

	spectrum := make([]complex128, n*n)
	for i, v := range small.Data {
		spectrum[i] = complex(float64(v), 0)
	}
	fft2D(spectrum, n, n, false)

	// Log amplitude, phase, and the smoothed log amplitude.
	logAmp := make([]float64, n*n)
	phase := make([]float64, n*n)
	for i, c := range spectrum {
		logAmp[i] = math.Log(cmplx.Abs(c) + 1e-9)
		phase[i] = cmplx.Phase(c)
	}
	smoothed := boxSmooth3(logAmp, n, n)

	// Residual spectrum back to the spatial domain.
	for i := range spectrum {
		amp := math.Exp(logAmp[i] - smoothed[i])
		spectrum[i] = cmplx.Rect(amp, phase[i])
	}
	fft2D(spectrum, n, n, true)

	sal := heightfield.New(n, n)
	for i, c := range spectrum {
		m := cmplx.Abs(c)
		sal.Data[i] = float32(m * m)
	}
	sal = heightfield.GaussianSmooth(sal, 2.5)
	normalizeField(sal)

	return upscaleBilinear(sal, origW, origH), nil
}

// fft2D applies a row-then-column complex FFT in place. inverse applies
// the backward transform and rescales by 1/(w*h), since gonum's
// Sequence/Coefficients pair is unnormalized.
func fft2D(data []complex128, w, h int, inverse bool) {
	rowFFT := fourier.NewCmplxFFT(w)
	rowBuf := make([]complex128, w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		if inverse {
			rowFFT.Sequence(rowBuf, row)
		} else {
			rowFFT.Coefficients(rowBuf, row)
		}
		copy(row, rowBuf)
	}

	colFFT := fourier.NewCmplxFFT(h)
	colIn := make([]complex128, h)
	colOut := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			colIn[y] = data[y*w+x]
		}
		if inverse {
			colFFT.Sequence(colOut, colIn)
		} else {
			colFFT.Coefficients(colOut, colIn)
		}
		for y := 0; y < h; y++ {
			data[y*w+x] = colOut[y]
		}
	}

	if inverse {
		scale := complex(1/float64(w*h), 0)
		for i := range data {
			data[i] *= scale
		}
	}
}

// boxSmooth3 applies a 3x3 box filter with border clamping.
func boxSmooth3(src []float64, w, h int) []float64 {
	out := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					xi, yi := x+dx, y+dy
					if xi < 0 {
						xi = 0
					} else if xi >= w {
						xi = w - 1
					}
					if yi < 0 {
						yi = 0
					} else if yi >= h {
						yi = h - 1
					}
					sum += src[yi*w+xi]
				}
			}
			out[y*w+x] = sum / 9
		}
	}
	return out
}

// normalizeField rescales f to [0, 1] in place; a flat field becomes zero.
func normalizeField(f *heightfield.Field) {
	minV, maxV := f.MinMax()
	span := maxV - minV
	if span < 1e-12 {
		for i := range f.Data {
			f.Data[i] = 0
		}
		return
	}
	for i, v := range f.Data {
		f.Data[i] = (v - minV) / span
	}
}

// upscaleBilinear resamples f to the target size.
func upscaleBilinear(f *heightfield.Field, w, h int) *heightfield.Field {
	if f.Width == w && f.Height == h {
		return f
	}
	out := heightfield.New(w, h)
	sx := float64(f.Width-1) / float64(max(w-1, 1))
	sy := float64(f.Height-1) / float64(max(h-1, 1))
	for y := 0; y < h; y++ {
		fy := float64(y) * sy
		y0 := int(fy)
		y1 := min(y0+1, f.Height-1)
		wy := float32(fy - float64(y0))
		for x := 0; x < w; x++ {
			fx := float64(x) * sx
			x0 := int(fx)
			x1 := min(x0+1, f.Width-1)
			wx := float32(fx - float64(x0))

			top := f.At(x0, y0)*(1-wx) + f.At(x1, y0)*wx
			bot := f.At(x0, y1)*(1-wx) + f.At(x1, y1)*wx
			out.Set(x, y, top*(1-wy)+bot*wy)
		}
	}
	return out
}

// ContrastSaliency is a cheap fallback: local contrast against a blurred
// copy of the luminance, normalized to [0, 1].
type ContrastSaliency struct {
	// Sigma controls the blur radius used as the background estimate.
	Sigma float64
}

// NewContrastSaliency returns the fallback detector.
func NewContrastSaliency() *ContrastSaliency {
	return &ContrastSaliency{Sigma: 4}
}

// DetectSaliency returns |luma - blur(luma)| normalized to [0, 1].
func (s *ContrastSaliency) DetectSaliency(img image.Image) (*heightfield.Field, error) {
	luma := imgutil.Luma(img)
	blurred := heightfield.GaussianSmooth(luma, s.Sigma)

	out := heightfield.New(luma.Width, luma.Height)
	for i := range luma.Data {
		d := luma.Data[i] - blurred.Data[i]
		if d < 0 {
			d = -d
		}
		out.Data[i] = d
	}
	normalizeField(out)
	return out, nil
}
