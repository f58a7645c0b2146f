// Package presets ships curated parameter bundles and loads user presets
// from YAML files.
package presets

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tactileforge/relief/internal/params"
)

// Preset is a named, ready-to-use parameter bundle. Mode is the processor
// the preset targets; "auto" leaves selection to the mode selector.
type Preset struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Mode        string     `yaml:"mode" json:"mode"`
	Params      params.All `yaml:"params" json:"params"`
}

// Builtin returns the shipped presets, sorted by name.
func Builtin() []Preset {
	list := []Preset{
		{
			Name:        "default",
			Description: "balanced settings for any image",
			Mode:        "auto",
			Params:      params.Default(),
		},
		{
			Name:        "portrait",
			Description: "strong face emphasis with softened background",
			Mode:        "portrait",
			Params: withSemantic(func(s *params.Semantic) {
				s.SubjectEmphasis = 150
				s.BackgroundSuppression = 60
				s.FeatureSharpness = 80
			}),
		},
		{
			Name:        "landscape",
			Description: "saliency-driven terrain with suppressed sky",
			Mode:        "landscape",
			Params: withSemantic(func(s *params.Semantic) {
				s.SubjectEmphasis = 130
				s.BackgroundSuppression = 70
			}),
		},
		{
			Name:        "text",
			Description: "tall crisp strokes for braille-like tactile reading",
			Mode:        "text",
			Params: withAll(func(a *params.All) {
				a.Semantic.TextHeight = 180
				a.Semantic.BackgroundHeight = 2
				a.Processing.Smoothing = 0.5
			}),
		},
		{
			Name:        "diagram",
			Description: "discrete region levels with raised outlines",
			Mode:        "diagram",
			Params: withSemantic(func(s *params.Semantic) {
				s.EdgeEmphasis = 180
				s.RegionContrast = 90
			}),
		},
		{
			Name:        "fine-detail",
			Description: "high resolution and light smoothing for intricate sources",
			Mode:        "auto",
			Params: withAll(func(a *params.All) {
				a.Processing.Resolution = 256
				a.Processing.Smoothing = 1
				a.Processing.EdgeStrength = 80
			}),
		},
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func withSemantic(mod func(*params.Semantic)) params.All {
	a := params.Default()
	mod(&a.Semantic)
	return a
}

func withAll(mod func(*params.All)) params.All {
	a := params.Default()
	mod(&a)
	return a
}

// Get returns the built-in preset with the given name.
func Get(name string) (Preset, error) {
	for _, p := range Builtin() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q, available: %v", name, Names())
}

// Names lists the built-in preset names.
func Names() []string {
	builtin := Builtin()
	names := make([]string, len(builtin))
	for i, p := range builtin {
		names[i] = p.Name
	}
	return names
}

// Load reads a preset from a YAML file and validates its parameters.
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen preset path
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}

	// Start from defaults so partial files stay valid.
	p := Preset{Mode: "auto", Params: params.Default()}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if p.Name == "" {
		return Preset{}, fmt.Errorf("preset %s has no name", path)
	}
	if err := p.Params.Validate(); err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return p, nil
}

// Save writes a preset as YAML.
func Save(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: presets are not secrets
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}
