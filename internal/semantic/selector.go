package semantic

import (
	"image"

	"github.com/tactileforge/relief/internal/detect"
	"github.com/tactileforge/relief/internal/imgutil"
)

// Selector holds the mode-selection thresholds. The priority ordering
// (face, then text, then diagram, then landscape) is authoritative; the
// numeric thresholds are tunable defaults.
type Selector struct {
	// FaceConfidence is the minimum confidence for a face to force
	// portrait mode.
	FaceConfidence float64
	// TextCoverage is the minimum glyph-pixel fraction for text mode.
	TextCoverage float64
	// EdgeDensity is the minimum strong-edge fraction for diagram mode.
	EdgeDensity float64
	// EdgeThreshold defines a "strong" edge for the density measure.
	EdgeThreshold float32
	// MaxDiagramStdDev caps the luminance spread for diagram mode;
	// photographs exceed it, flat-shaded line art does not.
	MaxDiagramStdDev float32
}

// DefaultSelector returns the default thresholds.
func DefaultSelector() Selector {
	return Selector{
		FaceConfidence:   0.5,
		TextCoverage:     0.08,
		EdgeDensity:      0.15,
		EdgeThreshold:    0.2,
		MaxDiagramStdDev: 80.0 / 255.0,
	}
}

// Selection records the evidence behind a mode decision.
type Selection struct {
	Mode           Mode    `json:"mode"`
	FaceConfidence float64 `json:"face_confidence"`
	FaceCount      int     `json:"face_count"`
	TextCoverage   float64 `json:"text_coverage"`
	EdgeDensity    float64 `json:"edge_density"`
	LumaStdDev     float64 `json:"luma_std_dev"`
}

// Select chooses a processor mode for the image. Checks run in priority
// order: a confident face wins, then dense text, then edge-heavy
// low-variance line art; everything else is treated as a landscape.
func (e *Engine) Select(img image.Image) (Selection, error) {
	sel := Selection{Mode: ModeLandscape}

	faces, err := e.providers.Face.DetectFaces(img)
	if err != nil {
		return sel, err
	}
	sel.FaceCount = len(faces)
	for _, f := range faces {
		if f.Confidence > sel.FaceConfidence {
			sel.FaceConfidence = f.Confidence
		}
	}

	textMask, err := e.providers.Text.DetectTextRegions(img)
	if err != nil {
		return sel, err
	}
	sel.TextCoverage = maskCoverage(textMask)

	edges, err := e.providers.Edge.DetectEdges(img)
	if err != nil {
		return sel, err
	}
	sel.EdgeDensity = detect.EdgeDensity(edges, e.selector.EdgeThreshold)
	sel.LumaStdDev = float64(imgutil.Luma(img).StdDev())

	switch {
	case sel.FaceConfidence >= e.selector.FaceConfidence:
		sel.Mode = ModePortrait
	case sel.TextCoverage >= e.selector.TextCoverage:
		sel.Mode = ModeText
	case sel.EdgeDensity >= e.selector.EdgeDensity &&
		sel.LumaStdDev <= float64(e.selector.MaxDiagramStdDev):
		sel.Mode = ModeDiagram
	default:
		sel.Mode = ModeLandscape
	}
	return sel, nil
}
