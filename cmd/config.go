package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/limnoplot/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set limnoplot configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		if c.ProfilesFile != "" {
			fmt.Fprintf(out, "profiles_file: %s\n", c.ProfilesFile)
		}
		fmt.Fprintf(out, "chart_format: %s\n", c.ChartFormat)
		fmt.Fprintf(out, "chart_width_in: %.2f\n", c.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.2f\n", c.ChartHeightIn)
		fmt.Fprintf(out, "label_font_size: %.1f\n", c.LabelFontSize)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		switch key {
		case "output_dir":
			c.OutputDir = val
		case "profiles_file":
			if _, err := cfgpkg.LoadProfiles(val); err != nil {
				return err
			}
			c.ProfilesFile = val
		case "chart_format":
			switch f := strings.TrimPrefix(strings.ToLower(val), "."); f {
			case "png", "svg", "pdf":
				c.ChartFormat = f
			default:
				return fmt.Errorf("invalid chart_format: %s (use png, svg or pdf)", val)
			}
		case "chart_width_in", "chart_height_in", "label_font_size":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive number for %s: %v", key, val)
			}
			switch key {
			case "chart_width_in":
				c.ChartWidthIn = f
			case "chart_height_in":
				c.ChartHeightIn = f
			default:
				c.LabelFontSize = f
			}
		default:
			return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(cfgpkg.Keys, ", "))
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
