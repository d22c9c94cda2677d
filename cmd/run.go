package cmd

import (
	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/spf13/cobra"
)

var runOut outputFlags

var runCmd = &cobra.Command{
	Use:   "run <profile> <file>",
	Short: "Run a named profile against a survey table",
	Long: `Run loads the table, averages each series per site, fits the profile's line
and writes the chart. Built-in profiles: yellowstone-carlson, tetons-vollen,
inlet-inlake-phosphorus. Extra profiles come from --profiles or profiles_file.`,
	Example: `  limnoplot run yellowstone-carlson YellowstoneLakesData.xlsx -o carlson.png
  limnoplot run tetons-vollen TetonsLakesData.csv --json tetons.json --report tetons.md`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := userProfiles()
		if err != nil {
			return err
		}
		prof, err := analysis.FindProfile(args[0], extra)
		if err != nil {
			return err
		}
		return execute(cmd, args[1], prof, &runOut)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runOut.register(runCmd)
}
