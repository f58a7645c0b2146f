// Package semantic converts images into raw relief-height fields.
//
// Each image category gets its own processor: portraits emphasize the
// detected face, landscapes follow visual saliency, text renders glyphs
// as raised strokes and diagrams quantize regions into discrete levels.
// All processors share one contract: image in, raw unnormalized field
// out. Normalization is the post-processor's job (see Apply).
package semantic

import (
	"fmt"
	"image"

	"github.com/tactileforge/relief/internal/detect"
	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// Mode identifies a relief-generation strategy. The set is closed; every
// dispatch over it is exhaustive.
type Mode int

const (
	// ModeAuto defers the choice to the selector.
	ModeAuto Mode = iota
	ModePortrait
	ModeLandscape
	ModeText
	ModeDiagram
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModePortrait:
		return "portrait"
	case ModeLandscape:
		return "landscape"
	case ModeText:
		return "text"
	case ModeDiagram:
		return "diagram"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes the mode as its lowercase name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode from its lowercase name.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode parses a mode name as accepted on the command line.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "portrait":
		return ModePortrait, nil
	case "landscape":
		return ModeLandscape, nil
	case "text":
		return ModeText, nil
	case "diagram":
		return ModeDiagram, nil
	default:
		return ModeAuto, fmt.Errorf("unknown mode %q (want auto, portrait, landscape, text or diagram)", s)
	}
}

// Engine runs mode selection and the mode processors against a fixed set
// of detector providers. Engines are safe for concurrent use; providers
// are shared read-only.
type Engine struct {
	providers *detect.Providers
	selector  Selector
}

// NewEngine creates an engine with default selector thresholds.
func NewEngine(providers *detect.Providers) *Engine {
	return &Engine{providers: providers, selector: DefaultSelector()}
}

// Process dispatches to the processor for mode and returns the raw height
// field plus any warnings (detection misses are warnings, not errors).
// ModeAuto must be resolved via Select before calling Process.
func (e *Engine) Process(mode Mode, img image.Image, sem params.Semantic) (*heightfield.Field, []string, error) {
	switch mode {
	case ModePortrait:
		return e.processPortrait(img, sem)
	case ModeLandscape:
		return e.processLandscape(img, sem)
	case ModeText:
		return e.processText(img, sem)
	case ModeDiagram:
		return e.processDiagram(img, sem)
	case ModeAuto:
		return nil, nil, fmt.Errorf("mode auto must be resolved before processing")
	default:
		return nil, nil, fmt.Errorf("unhandled mode %v", mode)
	}
}
