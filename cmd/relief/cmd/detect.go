package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tactileforge/relief/internal/detect"
	"github.com/tactileforge/relief/internal/imgutil"
	"github.com/tactileforge/relief/internal/semantic"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Analyze an image and report the selected processing mode",
	Long: `Detect runs the content analysis stage only and prints the mode the
automatic selector would choose, together with the measured signals
(face confidence, text coverage, edge density, luminance spread).

Example:
  relief detect photo.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().String("face-backend", "", "face detector backend (auto, pigo, onnx, heuristic)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if backend, _ := cmd.Flags().GetString("face-backend"); backend != "" {
		cfg.Detector.FaceBackend = backend
	}

	providers, err := detect.NewProviders(cfg.Detector)
	if err != nil {
		return fmt.Errorf("initialize detectors: %w", err)
	}
	engine := semantic.NewEngine(providers)

	img, meta, err := imgutil.LoadImage(args[0])
	if err != nil {
		return err
	}

	resized := imgutil.ResizeToGrid(img, cfg.Params.Processing.Resolution)
	sel, err := engine.Select(resized)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", args[0], err)
	}

	doc := struct {
		Source string             `json:"source"`
		Width  int                `json:"width"`
		Height int                `json:"height"`
		Format string             `json:"format"`
		semantic.Selection
	}{
		Source:    args[0],
		Width:     meta.Width,
		Height:    meta.Height,
		Format:    meta.Format,
		Selection: sel,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
