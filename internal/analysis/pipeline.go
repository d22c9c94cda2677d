package analysis

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/limnoplot/internal/dataset"
	"github.com/KaramelBytes/limnoplot/internal/log"
	"github.com/google/uuid"
)

// Result is everything one run produces apart from the chart itself.
type Result struct {
	RunID   string `json:"run_id"`
	Profile string `json:"profile"`
	Input   string `json:"input"`
	Sheet   string `json:"sheet,omitempty"`

	Rows         int            `json:"rows"`
	Observations int            `json:"observations"`
	Excluded     int            `json:"excluded"`
	Unkeyed      int            `json:"unkeyed"`
	Malformed    map[string]int `json:"malformed,omitempty"`
	Empty        map[string]int `json:"empty,omitempty"`

	Summary *Aggregate `json:"summary"`
	Fit     *FitResult `json:"fit,omitempty"`
	Bands   *BandSet   `json:"bands,omitempty"`
	// Classes maps site to the band containing its mean on the banded axis.
	Classes  map[string]string `json:"classes,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Run executes load, clean, aggregate and fit for one profile. Load
// failures and degenerate fits abort the run.
func Run(path string, p Profile) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	lopt, err := p.LoadOptions()
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path, lopt)
	if err != nil {
		return nil, err
	}
	log.Debugw("loaded table", "path", path, "sheet", t.Sheet, "rows", len(t.Rows), "cols", len(t.Header))
	return RunTable(t, p)
}

// RunTable runs the pipeline on an already loaded table.
func RunTable(t *dataset.Table, p Profile) (*Result, error) {
	copt, err := p.CleanOptions()
	if err != nil {
		return nil, err
	}
	cl, err := Clean(t, copt)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", t.Name, err)
	}
	log.Debugw("cleaned rows", "observations", len(cl.Observations), "excluded", cl.Excluded, "unkeyed", cl.Unkeyed, "malformed", cl.Malformed)

	agg := Summarize(cl.Observations, AggregateOptions{Series: p.ResolvedSeries(), AllowList: p.AllowList})
	log.Debugw("aggregated sites", "sites", len(agg.Sites), "dropped", len(agg.Dropped))

	res := &Result{
		RunID:        uuid.NewString(),
		Profile:      p.Name,
		Input:        t.Name,
		Sheet:        t.Sheet,
		Rows:         cl.Rows,
		Observations: len(cl.Observations),
		Excluded:     cl.Excluded,
		Unkeyed:      cl.Unkeyed,
		Malformed:    cl.Malformed,
		Empty:        cl.Empty,
		Summary:      agg,
	}
	res.Warnings = warnings(t.Name, cl, agg, p)

	if p.Fit != nil {
		fr, err := FitSeries(agg, p.Fit.X, p.Fit.Y)
		if err != nil {
			return nil, fmt.Errorf("fit %s ~ %s over %d site(s): %w", p.Fit.Y, p.Fit.X, len(agg.Sites), err)
		}
		res.Fit = &fr
		log.Debugw("fitted line", "slope", fr.Slope, "intercept", fr.Intercept, "r2", fr.RSquared)
	}

	bs, err := p.ResolveBands()
	if err != nil {
		return nil, err
	}
	if bs != nil && p.Fit != nil {
		res.Bands = bs
		res.Classes = map[string]string{}
		series := p.Fit.X
		if bs.Axis == "y" {
			series = p.Fit.Y
		}
		for _, s := range agg.Sites {
			v, _ := s.Mean(series)
			if b, ok := bs.Classify(v); ok {
				res.Classes[s.Site] = b.Label
			} else {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: mean %.4g outside %s bands", s.Site, v, bs.Name))
			}
		}
	}
	return res, nil
}

func warnings(input string, cl *Cleaned, agg *Aggregate, p Profile) []string {
	var out []string
	cols := make([]string, 0, len(cl.Malformed))
	for c := range cl.Malformed {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	for _, c := range cols {
		out = append(out, fmt.Sprintf("%d malformed value(s) in %q treated as missing", cl.Malformed[c], c))
	}
	for _, d := range agg.Dropped {
		out = append(out, fmt.Sprintf("dropped %s: %s", d.Site, d.Reason))
	}
	if len(p.AllowList) > 0 {
		seen := map[string]bool{}
		for _, o := range cl.Observations {
			seen[o.Site] = true
		}
		for _, s := range p.AllowList {
			if !seen[s] {
				out = append(out, fmt.Sprintf("allow-listed site %q not found in %s", s, input))
			}
		}
	}
	return out
}
