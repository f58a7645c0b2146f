package semantic

import (
	"image"

	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// processText builds the text height field:
//
//	background_height + text_mask*text_height
//
// The text mask is binary, so the raw field is bimodal by construction:
// background pixels sit at one constant, glyph pixels at another.
func (e *Engine) processText(img image.Image, sem params.Semantic) (*heightfield.Field, []string, error) {
	mask, err := e.providers.Text.DetectTextRegions(img)
	if err != nil {
		return nil, nil, err
	}

	bg := float32(sem.BackgroundHeight / 100)
	textH := float32(sem.TextHeight / 100)

	raw := heightfield.NewUniform(mask.Width, mask.Height, bg)
	raw.AddScaled(mask, textH)

	var warnings []string
	if cov := maskCoverage(mask); cov == 0 {
		warnings = append(warnings, "no text strokes detected, relief will be a flat slab")
	}
	return raw, warnings, nil
}
