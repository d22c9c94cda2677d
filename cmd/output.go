package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/KaramelBytes/limnoplot/internal/chart"
	"github.com/KaramelBytes/limnoplot/internal/log"
	"github.com/KaramelBytes/limnoplot/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// outputFlags are shared by every command that executes a pipeline.
type outputFlags struct {
	chartPath  string
	jsonPath   string
	reportPath string
	sheetName  string
	sheetIndex int
	noChart    bool
	quiet      bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.chartPath, "output", "o", "", "chart file (.png|.svg|.pdf); default <output_dir>/<profile>.<chart_format>")
	cmd.Flags().StringVar(&o.jsonPath, "json", "", "write the full result as JSON")
	cmd.Flags().StringVar(&o.reportPath, "report", "", "write a Markdown report")
	cmd.Flags().StringVar(&o.sheetName, "sheet-name", "", "XLSX: sheet name to read (default first sheet)")
	cmd.Flags().IntVar(&o.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (ignored if --sheet-name is set)")
	cmd.Flags().BoolVar(&o.noChart, "no-chart", false, "skip chart rendering")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "only print written file paths")
}

func (o *outputFlags) apply(p *analysis.Profile) {
	if o.sheetName != "" {
		p.SheetName = o.sheetName
	}
	if o.sheetIndex > 0 {
		p.SheetIndex = o.sheetIndex
	}
}

var (
	headStyle = lipgloss.NewStyle().Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5b041"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// execute runs the profile against path and writes every requested output.
func execute(cmd *cobra.Command, path string, prof analysis.Profile, o *outputFlags) error {
	c, err := currentConfig()
	if err != nil {
		return err
	}
	o.apply(&prof)
	res, err := analysis.Run(path, prof)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !o.quiet {
		printSummary(out, res)
	}

	if !o.noChart {
		name := o.chartPath
		if name == "" {
			name = utils.OutputPath(c.OutputDir, fmt.Sprintf("%s.%s", prof.Name, strings.TrimPrefix(c.ChartFormat, ".")))
		}
		opt := chart.Options{WidthIn: c.ChartWidthIn, HeightIn: c.ChartHeightIn, FontSize: c.LabelFontSize}
		pl, err := chart.Render(res, prof, opt)
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if err := utils.EnsureParentDir(name); err != nil {
			return err
		}
		if err := chart.Save(pl, name, opt); err != nil {
			return err
		}
		log.Infow("chart written", "path", name, "kind", prof.ChartKind(), "run", res.RunID)
		fmt.Fprintf(out, "✓ Wrote chart to %s\n", name)
	}
	if o.jsonPath != "" {
		b, err := utils.PrettyJSON(res)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(o.jsonPath, append(b, '\n')); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote result to %s\n", o.jsonPath)
	}
	if o.reportPath != "" {
		if err := utils.SafeWriteFile(o.reportPath, []byte(res.Markdown())); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote report to %s\n", o.reportPath)
	}
	return nil
}

func printSummary(w io.Writer, res *analysis.Result) {
	src := res.Input
	if res.Sheet != "" {
		src += " [" + res.Sheet + "]"
	}
	fmt.Fprintf(w, "✓ %s: %d site(s) from %s (%d rows, %d excluded)\n",
		headStyle.Render(res.Profile), len(res.Summary.Sites), src, res.Rows, res.Excluded)

	colors := map[string]string{}
	if res.Bands != nil {
		for _, b := range res.Bands.Bands {
			colors[b.Label] = b.Color
		}
	}
	width := 0
	for _, s := range res.Summary.Sites {
		if n := len([]rune(s.Site)); n > width {
			width = n
		}
	}
	for _, s := range res.Summary.Sites {
		parts := make([]string, 0, len(res.Summary.Series))
		for _, se := range res.Summary.Series {
			m := s.Metrics[se.Name]
			parts = append(parts, fmt.Sprintf("%s=%.4g", se.Name, m.Mean))
		}
		line := fmt.Sprintf("  %-*s  %s", width, s.Site, strings.Join(parts, "  "))
		if cls, ok := res.Classes[s.Site]; ok {
			st := lipgloss.NewStyle()
			if hex := colors[cls]; hex != "" {
				st = st.Foreground(lipgloss.Color(hex))
			}
			line += "  " + st.Render(cls)
		}
		fmt.Fprintln(w, line)
	}
	if res.Fit != nil {
		fmt.Fprintf(w, "✓ Fit: %s  (slope %.4f, R² %.4f, n=%d)\n", res.Fit.Equation(), res.Fit.Slope, res.Fit.RSquared, res.Fit.N)
	}
	for _, n := range res.Warnings {
		fmt.Fprintln(w, warnStyle.Render("⚠ "+n))
	}
	fmt.Fprintln(w, dimStyle.Render("run "+res.RunID))
}
