package cmd

import (
	"fmt"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	cfgpkg "github.com/KaramelBytes/limnoplot/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List and inspect pipeline profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and file profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := userProfiles()
		if err != nil {
			return err
		}
		fromFile := map[string]bool{}
		for _, p := range extra {
			fromFile[p.Name] = true
		}
		out := cmd.OutOrStdout()
		for _, name := range analysis.ProfileNames(extra) {
			p, err := analysis.FindProfile(name, extra)
			if err != nil {
				return err
			}
			src := "builtin"
			if fromFile[name] {
				src = "file"
			}
			fmt.Fprintf(out, "%-26s %-8s %s\n", name, src, p.Description)
		}
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a profile as YAML (usable in a profiles file)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := userProfiles()
		if err != nil {
			return err
		}
		p, err := analysis.FindProfile(args[0], extra)
		if err != nil {
			return err
		}
		b, err := cfgpkg.MarshalProfiles([]analysis.Profile{p})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var profilesBandsCmd = &cobra.Command{
	Use:   "bands [name]",
	Short: "Show the built-in trophic band sets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := analysis.BandSetNames()
		if len(args) == 1 {
			names = args
		}
		out := cmd.OutOrStdout()
		for i, name := range names {
			bs, err := analysis.LookupBands(name)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s (%s axis): %s\n", bs.Name, bs.Axis, bs.Title)
			for _, b := range bs.Bands {
				swatch := lipgloss.NewStyle().Background(lipgloss.Color(b.Color)).Render("  ")
				fmt.Fprintf(out, "  %s %5.1f - %5.1f  %s\n", swatch, b.Low, b.High, b.Label)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesBandsCmd)
}
