package detect

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// PigoFaceDetector detects faces with the pigo pixel-intensity-comparison
// cascade. It needs a binary cascade file (see models.FaceCascadePath).
type PigoFaceDetector struct {
	classifier *pigo.Pigo

	// Cascade sweep parameters.
	shiftFactor float64
	scaleFactor float64
	iouThresh   float64
	qThresh     float32
}

// NewPigoFaceDetector loads the cascade file and prepares a classifier.
func NewPigoFaceDetector(cascadePath string) (*PigoFaceDetector, error) {
	data, err := os.ReadFile(cascadePath) //nolint:gosec // G304: configured asset path
	if err != nil {
		return nil, fmt.Errorf("read face cascade: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade: %w", err)
	}

	return &PigoFaceDetector{
		classifier:  classifier,
		shiftFactor: 0.1,
		scaleFactor: 1.1,
		iouThresh:   0.2,
		qThresh:     5.0,
	}, nil
}

// DetectFaces runs the cascade over the image and returns clustered
// detections above the quality threshold, largest first.
func (d *PigoFaceDetector) DetectFaces(img image.Image) ([]Face, error) {
	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()

	pixels := pigo.RgbToGrayscale(img)

	minSize := min(rows, cols) / 10
	if minSize < 20 {
		minSize = 20
	}

	cParams := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     max(rows, cols),
		ShiftFactor: d.shiftFactor,
		ScaleFactor: d.scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(cParams, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.iouThresh)

	faces := make([]Face, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.qThresh {
			continue
		}
		half := det.Scale / 2
		box := Box{X: det.Col - half, Y: det.Row - half, W: det.Scale, H: det.Scale}
		box = clampBox(box, cols, rows)
		if box.W <= 0 || box.H <= 0 {
			continue
		}
		conf := float64(det.Q) / 40.0 // Q saturates around 40 on frontal faces
		if conf > 1 {
			conf = 1
		}
		faces = append(faces, Face{
			Box:        box,
			Confidence: conf,
			Landmarks:  landmarksFromBox(box),
		})
	}
	sortFacesByArea(faces)
	return faces, nil
}

// clampBox clips a box to image bounds.
func clampBox(b Box, w, h int) Box {
	if b.X < 0 {
		b.W += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.H += b.Y
		b.Y = 0
	}
	if b.X+b.W > w {
		b.W = w - b.X
	}
	if b.Y+b.H > h {
		b.H = h - b.Y
	}
	return b
}

// sortFacesByArea orders faces largest-area first, breaking ties by
// top-left position so results are deterministic.
func sortFacesByArea(faces []Face) {
	for i := 1; i < len(faces); i++ {
		for j := i; j > 0 && faceLess(faces[j], faces[j-1]); j-- {
			faces[j], faces[j-1] = faces[j-1], faces[j]
		}
	}
}

func faceLess(a, b Face) bool {
	aa, ba := a.Box.W*a.Box.H, b.Box.W*b.Box.H
	if aa != ba {
		return aa > ba
	}
	if a.Box.Y != b.Box.Y {
		return a.Box.Y < b.Box.Y
	}
	return a.Box.X < b.Box.X
}
