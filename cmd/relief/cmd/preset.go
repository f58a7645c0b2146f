package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tactileforge/relief/internal/presets"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Inspect and export parameter presets",
	Long: `Preset lists the built-in parameter bundles, shows their settings and
exports them as YAML starting points for custom presets.

Examples:
  relief preset list
  relief preset show portrait
  relief preset export text -o my-text.yaml`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, p := range presets.Builtin() {
			fmt.Fprintf(out, "%-12s %-10s %s\n", p.Name, p.Mode, p.Description)
		}
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a preset as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := presets.Get(args[0])
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var presetExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a preset to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := presets.Get(args[0])
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("output")
		if path == "" {
			path = p.Name + ".yaml"
		}
		if err := presets.Save(path, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetExportCmd)

	presetExportCmd.Flags().StringP("output", "o", "", "output file (default: <name>.yaml)")
}
