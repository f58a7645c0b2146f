// Package params defines the physical, processing and semantic parameter
// sets for relief generation, together with range validation.
//
// All physical measurements are in millimeters. Percentage parameters are
// stored in their documented 0-100 / 0-200 scale and converted to factors
// where they are consumed.
package params

import "fmt"

// ValidationError reports a parameter outside its documented range.
// It always names the offending field so callers can surface it directly.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Message)
}

// Physical holds the physical output parameters for mesh generation.
type Physical struct {
	WidthMM         float64 `mapstructure:"width_mm" yaml:"width_mm" json:"width_mm"`
	ReliefDepthMM   float64 `mapstructure:"relief_depth_mm" yaml:"relief_depth_mm" json:"relief_depth_mm"`
	BaseThicknessMM float64 `mapstructure:"base_thickness_mm" yaml:"base_thickness_mm" json:"base_thickness_mm"`
}

// DefaultPhysical returns the default physical parameters (150mm wide,
// 3mm relief on a 2mm base).
func DefaultPhysical() Physical {
	return Physical{
		WidthMM:         150,
		ReliefDepthMM:   3,
		BaseThicknessMM: 2,
	}
}

// MinHeightMM returns the z of the lowest top-surface point.
func (p Physical) MinHeightMM() float64 { return p.BaseThicknessMM }

// MaxHeightMM returns the z of the highest possible top-surface point.
func (p Physical) MaxHeightMM() float64 { return p.BaseThicknessMM + p.ReliefDepthMM }

// Validate checks the documented ranges and returns a ValidationError
// naming the first offending field.
func (p Physical) Validate() error {
	if p.WidthMM < 50 || p.WidthMM > 300 {
		return &ValidationError{Field: "width_mm", Message: fmt.Sprintf("%.2f outside [50, 300]", p.WidthMM)}
	}
	if p.ReliefDepthMM < 0.5 || p.ReliefDepthMM > 10 {
		return &ValidationError{Field: "relief_depth_mm", Message: fmt.Sprintf("%.2f outside [0.5, 10]", p.ReliefDepthMM)}
	}
	if p.BaseThicknessMM <= 0 || p.BaseThicknessMM > 10 {
		return &ValidationError{Field: "base_thickness_mm", Message: fmt.Sprintf("%.2f outside (0, 10]", p.BaseThicknessMM)}
	}
	return nil
}

// Processing holds the resolution and post-processing parameters shared
// by all modes.
type Processing struct {
	Resolution   int     `mapstructure:"resolution" yaml:"resolution" json:"resolution"`
	Smoothing    float64 `mapstructure:"smoothing" yaml:"smoothing" json:"smoothing"`
	EdgeStrength float64 `mapstructure:"edge_strength" yaml:"edge_strength" json:"edge_strength"`
	Contrast     float64 `mapstructure:"contrast" yaml:"contrast" json:"contrast"`

	// Grayscale pre-processing applied when building the luminance field.
	ClampMin      int  `mapstructure:"clamp_min" yaml:"clamp_min" json:"clamp_min"`
	ClampMax      int  `mapstructure:"clamp_max" yaml:"clamp_max" json:"clamp_max"`
	BorderPixels  int  `mapstructure:"border_pixels" yaml:"border_pixels" json:"border_pixels"`
	InvertHeights bool `mapstructure:"invert_heights" yaml:"invert_heights" json:"invert_heights"`
}

// DefaultProcessing returns the default processing parameters.
func DefaultProcessing() Processing {
	return Processing{
		Resolution:   128,
		Smoothing:    2,
		EdgeStrength: 60,
		Contrast:     100,
		ClampMin:     0,
		ClampMax:     255,
	}
}

// Validate checks the documented ranges.
func (p Processing) Validate() error {
	if p.Resolution < 2 || p.Resolution > 1024 {
		return &ValidationError{Field: "resolution", Message: fmt.Sprintf("%d outside [2, 1024]", p.Resolution)}
	}
	if p.Smoothing < 0 || p.Smoothing > 10 {
		return &ValidationError{Field: "smoothing", Message: fmt.Sprintf("%.2f outside [0, 10]", p.Smoothing)}
	}
	if p.EdgeStrength < 0 || p.EdgeStrength > 100 {
		return &ValidationError{Field: "edge_strength", Message: fmt.Sprintf("%.2f outside [0, 100]", p.EdgeStrength)}
	}
	if p.Contrast < 0 || p.Contrast > 200 {
		return &ValidationError{Field: "contrast", Message: fmt.Sprintf("%.2f outside [0, 200]", p.Contrast)}
	}
	if p.ClampMin < 0 || p.ClampMin > 255 {
		return &ValidationError{Field: "clamp_min", Message: fmt.Sprintf("%d outside [0, 255]", p.ClampMin)}
	}
	if p.ClampMax < 0 || p.ClampMax > 255 {
		return &ValidationError{Field: "clamp_max", Message: fmt.Sprintf("%d outside [0, 255]", p.ClampMax)}
	}
	if p.ClampMin >= p.ClampMax {
		return &ValidationError{Field: "clamp_min", Message: fmt.Sprintf("%d not below clamp_max %d", p.ClampMin, p.ClampMax)}
	}
	if p.BorderPixels < 0 {
		return &ValidationError{Field: "border_pixels", Message: fmt.Sprintf("%d is negative", p.BorderPixels)}
	}
	return nil
}

// Semantic holds the mode-specific emphasis parameters.
type Semantic struct {
	SubjectEmphasis       float64 `mapstructure:"subject_emphasis" yaml:"subject_emphasis" json:"subject_emphasis"`
	BackgroundSuppression float64 `mapstructure:"background_suppression" yaml:"background_suppression" json:"background_suppression"`
	FeatureSharpness      float64 `mapstructure:"feature_sharpness" yaml:"feature_sharpness" json:"feature_sharpness"`
	TextHeight            float64 `mapstructure:"text_height" yaml:"text_height" json:"text_height"`
	BackgroundHeight      float64 `mapstructure:"background_height" yaml:"background_height" json:"background_height"`
	EdgeEmphasis          float64 `mapstructure:"edge_emphasis" yaml:"edge_emphasis" json:"edge_emphasis"`
	RegionContrast        float64 `mapstructure:"region_contrast" yaml:"region_contrast" json:"region_contrast"`
}

// DefaultSemantic returns the default semantic parameters.
func DefaultSemantic() Semantic {
	return Semantic{
		SubjectEmphasis:       120,
		BackgroundSuppression: 40,
		FeatureSharpness:      70,
		TextHeight:            150,
		BackgroundHeight:      5,
		EdgeEmphasis:          150,
		RegionContrast:        80,
	}
}

// Validate checks the documented ranges.
func (s Semantic) Validate() error {
	checks := []struct {
		field string
		val   float64
		lo    float64
		hi    float64
	}{
		{"subject_emphasis", s.SubjectEmphasis, 0, 200},
		{"background_suppression", s.BackgroundSuppression, 0, 100},
		{"feature_sharpness", s.FeatureSharpness, 0, 100},
		{"text_height", s.TextHeight, 0, 200},
		{"background_height", s.BackgroundHeight, 0, 100},
		{"edge_emphasis", s.EdgeEmphasis, 0, 200},
		{"region_contrast", s.RegionContrast, 0, 100},
	}
	for _, c := range checks {
		if c.val < c.lo || c.val > c.hi {
			return &ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("%.2f outside [%g, %g]", c.val, c.lo, c.hi),
			}
		}
	}
	return nil
}

// All bundles the complete parameter set for one pipeline run.
type All struct {
	Physical   Physical   `mapstructure:"physical" yaml:"physical" json:"physical"`
	Processing Processing `mapstructure:"processing" yaml:"processing" json:"processing"`
	Semantic   Semantic   `mapstructure:"semantic" yaml:"semantic" json:"semantic"`
}

// Default returns the complete default parameter set.
func Default() All {
	return All{
		Physical:   DefaultPhysical(),
		Processing: DefaultProcessing(),
		Semantic:   DefaultSemantic(),
	}
}

// Validate validates all three parameter groups.
func (a All) Validate() error {
	if err := a.Physical.Validate(); err != nil {
		return err
	}
	if err := a.Processing.Validate(); err != nil {
		return err
	}
	return a.Semantic.Validate()
}
