package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact report of the run.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[RUN SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Profile: %s\n", r.Profile))
	if r.Input != "" {
		if r.Sheet != "" {
			b.WriteString(fmt.Sprintf("File: %s (sheet: %s)\n", r.Input, r.Sheet))
		} else {
			b.WriteString(fmt.Sprintf("File: %s\n", r.Input))
		}
	}
	b.WriteString(fmt.Sprintf("Rows: %d (kept %d, excluded %d, no site %d)\n", r.Rows, r.Observations, r.Excluded, r.Unkeyed))
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}

	if r.Summary != nil {
		b.WriteString(fmt.Sprintf("\n[SITES] %d\n", len(r.Summary.Sites)))
		b.WriteString("| Site | n |")
		for _, s := range r.Summary.Series {
			b.WriteString(" ")
			b.WriteString(safeVal(s.Name))
			b.WriteString(" |")
		}
		if len(r.Classes) > 0 {
			b.WriteString(" Class |")
		}
		b.WriteString("\n|---|---|")
		for range r.Summary.Series {
			b.WriteString("---|")
		}
		if len(r.Classes) > 0 {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for _, site := range r.Summary.Sites {
			b.WriteString(fmt.Sprintf("| %s | %d |", safeVal(site.Site), site.Size))
			for _, s := range r.Summary.Series {
				m := site.Metrics[s.Name]
				b.WriteString(fmt.Sprintf(" %.4g (n=%d) |", m.Mean, m.Count))
			}
			if len(r.Classes) > 0 {
				b.WriteString(" ")
				b.WriteString(safeVal(r.Classes[site.Site]))
				b.WriteString(" |")
			}
			b.WriteString("\n")
		}
		if len(r.Summary.Dropped) > 0 {
			b.WriteString("\n[DROPPED SITES]\n")
			for _, d := range r.Summary.Dropped {
				b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(d.Site), d.Reason))
			}
		}
	}

	if r.Fit != nil {
		b.WriteString("\n[FIT]\n")
		b.WriteString(fmt.Sprintf("%s ~ %s (n=%d)\n", r.Fit.YSeries, r.Fit.XSeries, r.Fit.N))
		b.WriteString(fmt.Sprintf("Slope: %.4f\nIntercept: %.4f\nR²: %.4f\n", r.Fit.Slope, r.Fit.Intercept, r.Fit.RSquared))
		b.WriteString(fmt.Sprintf("Equation: %s\n", r.Fit.Equation()))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
