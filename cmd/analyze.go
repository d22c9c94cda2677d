package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	anaSite      string
	anaNumeric   []string
	anaX         string
	anaY         string
	anaRole      string
	anaRoles     []string
	anaRename    []string
	anaExclude   []string
	anaAllow     []string
	anaBands     string
	anaDelimiter string
	anaDecimal   string
	anaThousands string
	anaPercent   bool
	anaChart     string
	anaTitle     string
	anaOut       outputFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run an ad-hoc pipeline described by flags",
	Example: `  limnoplot analyze lakes.csv --numeric "Carlson  TSI" --numeric Vollen --x "Carlson  TSI" --y Vollen --bands carlson
  limnoplot analyze tp.csv --numeric "Total Phosphorus (mg/L)" --role Location --roles Inlet,Inlake`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prof, err := adHocProfile()
		if err != nil {
			return err
		}
		return execute(cmd, args[0], prof, &anaOut)
	},
}

// adHocProfile assembles a profile from the analyze flags.
func adHocProfile() (analysis.Profile, error) {
	p := analysis.Profile{
		Name:           "ad-hoc",
		SiteColumn:     anaSite,
		RoleColumn:     anaRole,
		NumericColumns: anaNumeric,
		Exclude:        anaExclude,
		AllowList:      anaAllow,
		Bands:          anaBands,
		Delimiter:      anaDelimiter,
		Decimal:        anaDecimal,
		Thousands:      anaThousands,
		Percent:        anaPercent,
		Chart:          analysis.ChartSpec{Kind: anaChart, Title: anaTitle},
	}
	if len(anaRename) > 0 {
		p.Rename = map[string]string{}
		for _, kv := range anaRename {
			from, to, ok := strings.Cut(kv, "=")
			if !ok || strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
				return p, fmt.Errorf("invalid --rename %q (use old=new)", kv)
			}
			p.Rename[strings.TrimSpace(from)] = strings.TrimSpace(to)
		}
	}
	if len(anaRoles) > 0 {
		if anaRole == "" {
			return p, fmt.Errorf("--roles requires --role")
		}
		for _, col := range anaNumeric {
			for _, r := range anaRoles {
				name := r
				if len(anaNumeric) > 1 {
					name = r + " " + col
				}
				p.Series = append(p.Series, analysis.Series{Name: name, Field: col, Role: r})
			}
		}
	}
	if (anaX == "") != (anaY == "") {
		return p, fmt.Errorf("--x and --y must be given together")
	}
	if anaX != "" {
		p.Fit = &analysis.FitSpec{X: anaX, Y: anaY}
	} else if p.Chart.Kind == "" {
		p.Chart.Kind = analysis.ChartBar
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	f := analyzeCmd.Flags()
	f.StringVar(&anaSite, "site", "Site", "site id column")
	f.StringArrayVar(&anaNumeric, "numeric", nil, "numeric column to average (repeatable)")
	f.StringVar(&anaX, "x", "", "series on the x axis of the fit")
	f.StringVar(&anaY, "y", "", "series on the y axis of the fit")
	f.StringVar(&anaRole, "role", "", "column that tags each row with a role (e.g. Location)")
	f.StringSliceVar(&anaRoles, "roles", nil, "split each numeric column into one series per role")
	f.StringArrayVar(&anaRename, "rename", nil, "merge a site id into another: old=new (repeatable)")
	f.StringArrayVar(&anaExclude, "exclude", nil, "site id to exclude (repeatable)")
	f.StringArrayVar(&anaAllow, "allow", nil, "keep only these sites (repeatable)")
	f.StringVar(&anaBands, "bands", "", "band set to classify and shade ("+strings.Join(analysis.BandSetNames(), "|")+")")
	f.StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter override: ',' | ';' | 'tab'")
	f.StringVar(&anaDecimal, "decimal", "", "decimal separator: '.' | 'comma' | 'auto'")
	f.StringVar(&anaThousands, "thousands", "", "thousands separator: ',' | '.' | 'space'")
	f.BoolVar(&anaPercent, "percent", false, "accept values written with a '%' sign")
	f.StringVar(&anaChart, "chart", "", "chart kind: scatter | bar (default scatter with --x/--y, else bar)")
	f.StringVar(&anaTitle, "title", "", "chart title")
	_ = analyzeCmd.MarkFlagRequired("numeric")
	anaOut.register(analyzeCmd)
}
