package detect

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tactileforge/relief/internal/models"
)

// NewProviders wires one implementation per detector kind according to
// cfg. Saliency, text and edge detection are model-free; only the face
// backend involves strategy selection.
func NewProviders(cfg Config) (*Providers, error) {
	face, err := newFaceDetector(cfg)
	if err != nil {
		return nil, err
	}
	return &Providers{
		Face:     face,
		Saliency: NewSpectralResidualSaliency(),
		Text:     NewAdaptiveTextDetector(cfg.TextWindow, cfg.TextC),
		Edge:     NewSobelEdgeDetector(),
	}, nil
}

func newFaceDetector(cfg Config) (FaceDetector, error) {
	switch cfg.FaceBackend {
	case "pigo":
		return NewPigoFaceDetector(models.FaceCascadePath(cfg.ModelsDir))
	case "onnx":
		return NewONNXFaceDetector(DefaultONNXFaceConfig(models.FaceONNXPath(cfg.ModelsDir)))
	case "heuristic":
		return NewHeuristicFaceDetector(), nil
	case "", "auto":
		cascade := models.FaceCascadePath(cfg.ModelsDir)
		if _, err := os.Stat(cascade); err == nil {
			det, perr := NewPigoFaceDetector(cascade)
			if perr == nil {
				return det, nil
			}
			slog.Warn("face cascade present but unusable, falling back to heuristic detector",
				"path", cascade, "error", perr)
		}
		return NewHeuristicFaceDetector(), nil
	default:
		return nil, fmt.Errorf("unknown face backend %q (want auto, pigo, onnx or heuristic)", cfg.FaceBackend)
	}
}
