package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tactileforge/relief/internal/imgutil"
	"github.com/tactileforge/relief/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-images...>",
	Short: "Convert many images in parallel",
	Long: `Batch processes every supported image in the given directories and
files, writing one STL per input into the output directory.

Examples:
  relief batch ./photos -o ./meshes
  relief batch a.png b.png c.png -o ./out --workers 4 --binary`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	f := batchCmd.Flags()
	f.StringP("output", "o", ".", "output directory for generated meshes")
	f.String("mode", "auto", "processing mode applied to every image")
	f.String("preset", "", "parameter preset name or YAML file path")
	f.Int("workers", 0, "parallel workers (0 uses all CPUs)")
	f.Bool("binary", false, "write binary STL instead of ASCII")
	f.Bool("report", false, "write a JSON validation report per mesh")
	f.Bool("repair", false, "attempt automatic mesh repair on validation defects")
	f.Bool("fail-fast", false, "stop at the first failing image")
	f.String("face-backend", "", "face detector backend (auto, pigo, onnx, heuristic)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	f := cmd.Flags()

	modeName, _ := f.GetString("mode")
	if presetName, _ := f.GetString("preset"); presetName != "" {
		preset, err := resolvePreset(presetName)
		if err != nil {
			return err
		}
		cfg.Params = preset.Params
		if !f.Changed("mode") {
			modeName = preset.Mode
		}
	}
	if f.Changed("workers") {
		cfg.Batch.Workers, _ = f.GetInt("workers")
	}
	if failFast, _ := f.GetBool("fail-fast"); failFast {
		cfg.Batch.ContinueOnError = false
	}
	if backend, _ := f.GetString("face-backend"); backend != "" {
		cfg.Detector.FaceBackend = backend
	}

	paths, err := collectImages(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported images found (want %v)", imgutil.SupportedImageExtensions)
	}

	outDir, _ := f.GetString("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil { //nolint:gosec // G301: output dir should be listable
		return fmt.Errorf("create output directory: %w", err)
	}

	repair, _ := f.GetBool("repair")
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

	items, err := p.ProcessBatch(cmd.Context(), paths, pipeline.BatchOptions{
		Workers:         cfg.Batch.EffectiveWorkers(),
		ContinueOnError: cfg.Batch.ContinueOnError,
	})
	if err != nil {
		return err
	}

	binaryFormat, _ := f.GetBool("binary")
	wantReport, _ := f.GetBool("report")
	out := cmd.OutOrStdout()
	for i := range items {
		item := &items[i]
		if item.Err != nil {
			fmt.Fprintf(out, "FAIL  %s: %v\n", item.Path, item.Err)
			continue
		}
		stlPath := filepath.Join(outDir, replaceExt(filepath.Base(item.Path), ".stl"))
		if err := item.Result.WriteMesh(stlPath, binaryFormat); err != nil {
			item.Err = err
			fmt.Fprintf(out, "FAIL  %s: %v\n", item.Path, err)
			continue
		}
		if wantReport {
			if err := item.Result.WriteReport(replaceExt(stlPath, ".json")); err != nil {
				item.Err = err
				fmt.Fprintf(out, "FAIL  %s: %v\n", item.Path, err)
				continue
			}
		}
		fmt.Fprintf(out, "OK    %s -> %s (%s, %d triangles)\n",
			item.Path, stlPath, item.Result.Mode, item.Result.Report.TriangleCount)
	}

	failed := pipeline.FailedCount(items)
	fmt.Fprintf(out, "processed %d images, %d failed\n", len(items), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(items))
	}
	return nil
}

// collectImages expands directories into their supported image files and
// keeps explicitly named files as-is. The result is sorted for stable
// output ordering.
func collectImages(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			p := filepath.Join(arg, e.Name())
			if imgutil.IsSupportedImage(p) {
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
