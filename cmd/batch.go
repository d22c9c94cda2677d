package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/KaramelBytes/limnoplot/internal/utils"
	"github.com/spf13/cobra"
)

var (
	batchOutDir   string
	batchNoChart  bool
	batchNoReport bool
	batchQuiet    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <profile> <files...>",
	Short: "Run one profile over many files (globs allowed), one chart and report each",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		extra, err := userProfiles()
		if err != nil {
			return err
		}
		prof, err := analysis.FindProfile(args[0], extra)
		if err != nil {
			return err
		}
		files := expandInputs(args[1:])
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		dir := batchOutDir
		if dir == "" {
			dir = c.OutputDir
		}
		out := cmd.OutOrStdout()
		taken := map[string]bool{}
		total := len(files)
		for i, path := range files {
			if !batchQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			base := uniqueBase(dir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), taken)
			o := outputFlags{quiet: true, noChart: batchNoChart}
			o.chartPath = filepath.Join(dir, base+"."+strings.TrimPrefix(c.ChartFormat, "."))
			if !batchNoReport {
				o.reportPath = filepath.Join(dir, base+".md")
			}
			if err := execute(cmd, path, prof, &o); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, de-duplicates
// and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniqueBase returns base, or base__N when base was already used in this
// batch or a report with that name exists in dir.
func uniqueBase(dir, base string, taken map[string]bool) string {
	exists := func(b string) bool {
		if taken[b] {
			return true
		}
		_, err := os.Stat(utils.OutputPath(dir, b+".md"))
		return err == nil
	}
	cand := base
	for idx := 2; exists(cand); idx++ {
		cand = fmt.Sprintf("%s__%d", base, idx)
	}
	taken[cand] = true
	return cand
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for charts and reports (default output_dir)")
	batchCmd.Flags().BoolVar(&batchNoChart, "no-chart", false, "skip chart rendering")
	batchCmd.Flags().BoolVar(&batchNoReport, "no-report", false, "skip Markdown reports")
	batchCmd.Flags().BoolVar(&batchQuiet, "quiet", false, "suppress progress output")
}
