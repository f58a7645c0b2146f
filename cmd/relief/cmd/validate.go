package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tactileforge/relief/internal/mesh"
)

var validateCmd = &cobra.Command{
	Use:   "validate <mesh.stl>",
	Short: "Check an STL file for printability",
	Long: `Validate reads an STL file (ASCII or binary) and checks it for
watertightness, consistent normals, self-intersections and printer
constraints. The report is printed as JSON; the exit status is non-zero
when the mesh has hard errors.

Example:
  relief validate photo.stl`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Float64("min-feature", 0, "override minimum printable feature size in mm")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	vcfg := cfg.Validator
	if minFeature, _ := cmd.Flags().GetFloat64("min-feature"); minFeature > 0 {
		vcfg.MinFeatureSizeMM = minFeature
	}

	report, err := mesh.ValidateFile(args[0], vcfg)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if !report.OK() {
		return fmt.Errorf("%s failed validation: %s", args[0], strings.Join(report.Errors, "; "))
	}
	return nil
}
