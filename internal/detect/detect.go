// Package detect provides the detector adapters consumed by the mode
// processors: face, saliency, text-region and edge detection.
//
// Each detector kind is a small capability interface so implementations
// can be swapped without touching processor logic. The concrete strategy
// is selected once at startup (see NewProviders); per-image calls are
// synchronous and safe for concurrent use across pipeline instances.
package detect

import (
	"image"

	"github.com/tactileforge/relief/internal/heightfield"
)

// Box is an axis-aligned pixel rectangle.
type Box struct {
	X, Y, W, H int
}

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Face is a detected face region with optional feature landmarks.
type Face struct {
	Box        Box
	Confidence float64
	// Landmarks holds feature points (eyes, nose, mouth) when available.
	Landmarks []Point
}

// FaceDetector locates faces in an image. An empty slice with a nil error
// means no face was found; that is a detection miss, not a failure.
type FaceDetector interface {
	DetectFaces(img image.Image) ([]Face, error)
}

// SaliencyDetector produces a per-pixel visual-importance score map in [0, 1].
type SaliencyDetector interface {
	DetectSaliency(img image.Image) (*heightfield.Field, error)
}

// TextRegionDetector produces a binary text mask (1 = glyph, 0 = background).
type TextRegionDetector interface {
	DetectTextRegions(img image.Image) (*heightfield.Field, error)
}

// EdgeDetector produces a gradient-magnitude map normalized to [0, 1].
type EdgeDetector interface {
	DetectEdges(img image.Image) (*heightfield.Field, error)
}

// Providers bundles one implementation per detector kind.
type Providers struct {
	Face     FaceDetector
	Saliency SaliencyDetector
	Text     TextRegionDetector
	Edge     EdgeDetector
}

// Config selects detector implementations and their assets.
type Config struct {
	// ModelsDir holds optional detector assets. Empty uses the default
	// resolution order (flag, RELIEF_MODELS_DIR, ~/.cache/relief/models).
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`

	// FaceBackend selects the face detector: "auto" (pigo when a cascade
	// file is present, heuristic otherwise), "pigo", "onnx" or "heuristic".
	FaceBackend string `mapstructure:"face_backend" yaml:"face_backend" json:"face_backend"`

	// MinFaceConfidence filters weak face detections.
	MinFaceConfidence float64 `mapstructure:"min_face_confidence" yaml:"min_face_confidence" json:"min_face_confidence"`

	// TextWindow and TextC parametrize the adaptive text threshold.
	TextWindow int     `mapstructure:"text_window" yaml:"text_window" json:"text_window"`
	TextC      float32 `mapstructure:"text_c" yaml:"text_c" json:"text_c"`
}

// DefaultConfig returns detector defaults.
func DefaultConfig() Config {
	return Config{
		FaceBackend:       "auto",
		MinFaceConfidence: 0.5,
		TextWindow:        11,
		TextC:             0.02,
	}
}

// landmarksFromBox estimates eye, nose and mouth positions from face-box
// geometry. Used by backends that only report a bounding box.
func landmarksFromBox(b Box) []Point {
	return []Point{
		{X: b.X + (3*b.W)/10, Y: b.Y + (35*b.H)/100}, // left eye
		{X: b.X + (7*b.W)/10, Y: b.Y + (35*b.H)/100}, // right eye
		{X: b.X + b.W/2, Y: b.Y + (55*b.H)/100},      // nose tip
		{X: b.X + b.W/2, Y: b.Y + (3*b.H)/4},         // mouth
	}
}
