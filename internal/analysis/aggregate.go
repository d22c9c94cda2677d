package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Series names one mean computed per site. When Role is set, only
// observations carrying that role contribute.
type Series struct {
	Name  string `yaml:"name" json:"name"`
	Field string `yaml:"field" json:"field"`
	Role  string `yaml:"role,omitempty" json:"role,omitempty"`
	// Color is a "#rrggbb" chart colour; empty picks from the default palette.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// AggregateOptions controls grouping.
type AggregateOptions struct {
	Series []Series
	// AllowList keeps only these sites when non-empty.
	AllowList []string
}

// NumSummary describes the valid values behind one mean.
type NumSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// SiteSummary is one row per surviving site, keyed by series name.
type SiteSummary struct {
	Site    string                `json:"site"`
	Size    int                   `json:"size"`
	Metrics map[string]NumSummary `json:"metrics"`
}

// Mean returns the mean for a series, ok=false if the series is unknown.
func (s SiteSummary) Mean(series string) (float64, bool) {
	m, ok := s.Metrics[series]
	return m.Mean, ok
}

// DroppedSite records a group that did not make it into the summary.
type DroppedSite struct {
	Site   string `json:"site"`
	Reason string `json:"reason"`
}

// Aggregate is the grouped table.
type Aggregate struct {
	Series  []Series      `json:"series"`
	Sites   []SiteSummary `json:"sites"`
	Dropped []DroppedSite `json:"dropped,omitempty"`
}

// Column returns the means of one series in site order.
func (a *Aggregate) Column(series string) []float64 {
	out := make([]float64, 0, len(a.Sites))
	for _, s := range a.Sites {
		out = append(out, s.Metrics[series].Mean)
	}
	return out
}

// Label returns a display label for a series built from its column name,
// e.g. "Mean Total Phosphorus (mg/L)". Unknown series fall back to the name.
func (a *Aggregate) Label(series string) string {
	field := series
	for _, s := range a.Series {
		if s.Name == series {
			field = s.Field
			break
		}
	}
	name, unit := SplitUnits(field)
	if unit == "" {
		return "Mean " + name
	}
	return fmt.Sprintf("Mean %s (%s)", name, unit)
}

// Names returns site ids in summary order.
func (a *Aggregate) Names() []string {
	out := make([]string, len(a.Sites))
	for i, s := range a.Sites {
		out[i] = s.Site
	}
	return out
}

// Summarize groups observations by canonical site in first-encountered order
// and averages each series over its valid values only. A site lacking any
// series is dropped.
func Summarize(obs []Observation, opt AggregateOptions) *Aggregate {
	type acc struct {
		size int
		sum  []float64
		cnt  []int
		min  []float64
		max  []float64
	}
	ns := len(opt.Series)
	var order []string
	groups := map[string]*acc{}
	for _, o := range obs {
		ga := groups[o.Site]
		if ga == nil {
			ga = &acc{sum: make([]float64, ns), cnt: make([]int, ns), min: make([]float64, ns), max: make([]float64, ns)}
			groups[o.Site] = ga
			order = append(order, o.Site)
		}
		ga.size++
		for j, s := range opt.Series {
			if s.Role != "" && o.Role != s.Role {
				continue
			}
			v := o.Values[s.Field]
			if !v.Valid {
				continue
			}
			x := v.Value
			if ga.cnt[j] == 0 || x < ga.min[j] {
				ga.min[j] = x
			}
			if ga.cnt[j] == 0 || x > ga.max[j] {
				ga.max[j] = x
			}
			ga.sum[j] += x
			ga.cnt[j]++
		}
	}

	var allow map[string]struct{}
	if len(opt.AllowList) > 0 {
		allow = make(map[string]struct{}, len(opt.AllowList))
		for _, s := range opt.AllowList {
			allow[strings.TrimSpace(s)] = struct{}{}
		}
	}

	out := &Aggregate{Series: opt.Series}
	for _, site := range order {
		if allow != nil {
			if _, ok := allow[site]; !ok {
				out.Dropped = append(out.Dropped, DroppedSite{Site: site, Reason: "not in allow list"})
				continue
			}
		}
		ga := groups[site]
		var lacking []string
		for j, s := range opt.Series {
			if ga.cnt[j] == 0 {
				lacking = append(lacking, s.Name)
			}
		}
		if len(lacking) > 0 {
			out.Dropped = append(out.Dropped, DroppedSite{Site: site, Reason: fmt.Sprintf("no values for %s", strings.Join(lacking, ", "))})
			continue
		}
		sum := SiteSummary{Site: site, Size: ga.size, Metrics: make(map[string]NumSummary, ns)}
		for j, s := range opt.Series {
			mean := ga.sum[j] / float64(ga.cnt[j])
			// rounding in the running sum can push the mean just outside the data range
			mean = math.Min(math.Max(mean, ga.min[j]), ga.max[j])
			sum.Metrics[s.Name] = NumSummary{Count: ga.cnt[j], Min: ga.min[j], Max: ga.max[j], Mean: mean}
		}
		out.Sites = append(out.Sites, sum)
	}
	return out
}
