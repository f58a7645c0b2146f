package semantic

import (
	"image"
	"math"

	"github.com/tactileforge/relief/internal/detect"
	"github.com/tactileforge/relief/internal/heightfield"
	"github.com/tactileforge/relief/internal/params"
)

// faceBias is a constant lift applied inside the face mask on top of the
// user-controlled emphasis. It keeps the face region measurably above the
// background even at subject_emphasis = 0.
const faceBias = 0.05

// fallbackLevel is the uniform raw height used when no face is found.
const fallbackLevel = 0.2

// processPortrait builds the portrait height field:
//
//	background_base + face_mask*emphasis + feature_mask*sharpness
//
// where face_mask falls off smoothly from the face center and
// feature_mask adds sharp blobs at the eye/nose/mouth landmarks.
func (e *Engine) processPortrait(img image.Image, sem params.Semantic) (*heightfield.Field, []string, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	faces, err := e.providers.Face.DetectFaces(img)
	if err != nil {
		return nil, nil, err
	}
	faces = filterByConfidence(faces, e.selector.FaceConfidence)
	if len(faces) == 0 {
		return heightfield.NewUniform(w, h, fallbackLevel),
			[]string{"no face detected, using uniform fallback field"}, nil
	}

	emphasis := sem.SubjectEmphasis / 100
	suppress := sem.BackgroundSuppression / 100
	sharpness := sem.FeatureSharpness / 100

	raw := heightfield.NewUniform(w, h, float32(1-suppress))

	faceMask := heightfield.New(w, h)
	for _, f := range faces {
		addGaussianRegion(faceMask, f.Box.X+f.Box.W/2, f.Box.Y+f.Box.H/2,
			float64(f.Box.W)/4, float64(f.Box.H)/4)
	}
	raw.AddScaled(faceMask, float32(emphasis+faceBias))

	if sharpness > 0 {
		featureMask := heightfield.New(w, h)
		blobSigma := math.Max(1, float64(min(w, h))*0.01)
		for _, f := range faces {
			for _, p := range f.Landmarks {
				addGaussianRegion(featureMask, p.X, p.Y, blobSigma, blobSigma)
			}
		}
		raw.AddScaled(featureMask, float32(sharpness))
	}

	return raw, nil, nil
}

// FaceMask returns the combined smooth face mask for the image, or nil if
// no face clears the confidence threshold. Exposed for the emphasis
// invariant checks in tests and diagnostics output.
func (e *Engine) FaceMask(img image.Image) (*heightfield.Field, error) {
	b := img.Bounds()
	faces, err := e.providers.Face.DetectFaces(img)
	if err != nil {
		return nil, err
	}
	faces = filterByConfidence(faces, e.selector.FaceConfidence)
	if len(faces) == 0 {
		return nil, nil
	}
	mask := heightfield.New(b.Dx(), b.Dy())
	for _, f := range faces {
		addGaussianRegion(mask, f.Box.X+f.Box.W/2, f.Box.Y+f.Box.H/2,
			float64(f.Box.W)/4, float64(f.Box.H)/4)
	}
	return mask, nil
}

// addGaussianRegion accumulates (via max) an anisotropic Gaussian falloff
// centered at (cx, cy) into mask. Max keeps overlapping faces from
// stacking above 1.
func addGaussianRegion(mask *heightfield.Field, cx, cy int, sigmaX, sigmaY float64) {
	if sigmaX <= 0 || sigmaY <= 0 {
		return
	}
	for y := 0; y < mask.Height; y++ {
		dy := float64(y-cy) / sigmaY
		for x := 0; x < mask.Width; x++ {
			dx := float64(x-cx) / sigmaX
			v := float32(math.Exp(-(dx*dx + dy*dy) / 2))
			if v > mask.At(x, y) {
				mask.Set(x, y, v)
			}
		}
	}
}

func filterByConfidence(faces []detect.Face, minConf float64) []detect.Face {
	kept := faces[:0]
	for _, f := range faces {
		if f.Confidence >= minConf {
			kept = append(kept, f)
		}
	}
	return kept
}
