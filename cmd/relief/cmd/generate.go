package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tactileforge/relief/internal/config"
	"github.com/tactileforge/relief/internal/pipeline"
	"github.com/tactileforge/relief/internal/presets"
)

var generateCmd = &cobra.Command{
	Use:   "generate <image>",
	Short: "Generate a relief mesh from one image",
	Long: `Generate converts a single image into an STL relief mesh.

The processing mode is selected automatically unless --mode forces one.
Presets bundle curated parameters; explicit flags override preset values.

Examples:
  relief generate photo.jpg -o photo.stl
  relief generate page.png --mode text --binary -o page.stl
  relief generate map.png --preset diagram --report -o map.stl`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringP("output", "o", "", "output STL path (default: input name with .stl)")
	f.String("mode", "auto", "processing mode (auto, portrait, landscape, text, diagram)")
	f.String("preset", "", "parameter preset name or YAML file path")
	f.Float64("width", 0, "model width in mm")
	f.Float64("depth", 0, "relief depth in mm")
	f.Float64("base", 0, "base plate thickness in mm")
	f.Int("resolution", 0, "height-field grid width")
	f.Float64("smoothing", -1, "gaussian smoothing sigma")
	f.Float64("edge-strength", -1, "edge enhancement strength (0-100)")
	f.Float64("contrast", -1, "contrast scaling percentage (0-200)")
	f.Bool("invert", false, "invert relief heights")
	f.Int("border", 0, "flat border width in grid pixels")
	f.Bool("binary", false, "write binary STL instead of ASCII")
	f.Bool("report", false, "write a JSON validation report next to the mesh")
	f.Bool("repair", false, "attempt automatic mesh repair on validation defects")
	f.String("face-backend", "", "face detector backend (auto, pigo, onnx, heuristic)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	modeName, err := applyGenerateFlags(cmd, cfg)
	if err != nil {
		return err
	}

	repair, _ := cmd.Flags().GetBool("repair")
	p, err := pipeline.NewBuilder().
		WithParams(cfg.Params).
		WithDetector(cfg.Detector).
		WithValidator(cfg.Validator).
		WithModeName(modeName).
		WithAutoRepair(repair).
		Build()
	if err != nil {
		return err
	}

	inputPath := args[0]
	res, err := p.ProcessFile(inputPath)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".stl")
	}

	binaryFormat, _ := cmd.Flags().GetBool("binary")
	if cfg.Output.BinarySTL {
		binaryFormat = true
	}
	if err := res.WriteMesh(outputPath, binaryFormat); err != nil {
		return err
	}

	wantReport, _ := cmd.Flags().GetBool("report")
	if wantReport || cfg.Output.ReportJSON {
		if err := res.WriteReport(replaceExt(outputPath, ".json")); err != nil {
			return err
		}
	}

	printRunSummary(cmd, res, outputPath)
	if !res.Report.OK() {
		return fmt.Errorf("mesh failed validation: %s", strings.Join(res.Report.Errors, "; "))
	}
	return nil
}

// applyGenerateFlags layers preset values and explicit flag overrides on
// top of the loaded configuration, then validates the result.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) (string, error) {
	f := cmd.Flags()

	modeName, _ := f.GetString("mode")
	if presetName, _ := f.GetString("preset"); presetName != "" {
		preset, err := resolvePreset(presetName)
		if err != nil {
			return "", err
		}
		cfg.Params = preset.Params
		if !f.Changed("mode") {
			modeName = preset.Mode
		}
	}

	if f.Changed("width") {
		cfg.Params.Physical.WidthMM, _ = f.GetFloat64("width")
	}
	if f.Changed("depth") {
		cfg.Params.Physical.ReliefDepthMM, _ = f.GetFloat64("depth")
	}
	if f.Changed("base") {
		cfg.Params.Physical.BaseThicknessMM, _ = f.GetFloat64("base")
	}
	if f.Changed("resolution") {
		cfg.Params.Processing.Resolution, _ = f.GetInt("resolution")
	}
	if f.Changed("smoothing") {
		cfg.Params.Processing.Smoothing, _ = f.GetFloat64("smoothing")
	}
	if f.Changed("edge-strength") {
		cfg.Params.Processing.EdgeStrength, _ = f.GetFloat64("edge-strength")
	}
	if f.Changed("contrast") {
		cfg.Params.Processing.Contrast, _ = f.GetFloat64("contrast")
	}
	if f.Changed("invert") {
		cfg.Params.Processing.InvertHeights, _ = f.GetBool("invert")
	}
	if f.Changed("border") {
		cfg.Params.Processing.BorderPixels, _ = f.GetInt("border")
	}
	if f.Changed("face-backend") {
		cfg.Detector.FaceBackend, _ = f.GetString("face-backend")
	}

	return modeName, cfg.Params.Validate()
}

// resolvePreset accepts a built-in preset name or a YAML file path.
func resolvePreset(name string) (presets.Preset, error) {
	if strings.ContainsAny(name, "/\\") || strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return presets.Load(name)
	}
	return presets.Get(name)
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexAny(path, "/\\") {
		return path[:i] + ext
	}
	return path + ext
}

func printRunSummary(cmd *cobra.Command, res *pipeline.Result, outputPath string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mode:      %s\n", res.Mode)
	fmt.Fprintf(out, "grid:      %dx%d\n", res.HeightField.Width, res.HeightField.Height)
	fmt.Fprintf(out, "triangles: %d\n", res.Report.TriangleCount)
	fmt.Fprintf(out, "manifold:  %v\n", res.Report.IsManifold)
	fmt.Fprintf(out, "output:    %s\n", outputPath)
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning:   %s\n", w)
	}
	for _, w := range res.Report.Warnings {
		fmt.Fprintf(out, "warning:   %s\n", w)
	}
	for _, r := range res.Repairs {
		fmt.Fprintf(out, "repair:    %s\n", r)
	}
}
