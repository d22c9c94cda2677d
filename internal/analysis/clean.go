package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/limnoplot/internal/dataset"
)

// CleanOptions selects the columns to keep and the site rules to apply.
type CleanOptions struct {
	SiteColumn string
	// RoleColumn is optional, e.g. "Location" with Inlet/Inlake values.
	RoleColumn     string
	NumericColumns []string
	// Rename maps raw site ids to canonical ids. Applied before grouping.
	Rename map[string]string
	// Exclude removes sites by raw or canonical id.
	Exclude []string
	Number  NumberFormat
}

// Observation is one cleaned input row.
type Observation struct {
	Row     int            `json:"row"`
	RawSite string         `json:"raw_site"`
	Site    string         `json:"site"`
	Role    string         `json:"role,omitempty"`
	Values  map[string]Num `json:"values"`
}

// Cleaned holds the observations that survive exclusion plus counters for
// what was skipped or flagged on the way.
type Cleaned struct {
	Observations []Observation
	Rows         int
	Excluded     int
	// Unkeyed counts rows without a site id.
	Unkeyed int
	// Malformed counts non-empty cells that failed numeric parsing, by column.
	Malformed map[string]int
	// Empty counts blank numeric cells, by column.
	Empty map[string]int
}

// ColumnError reports required columns absent from the input header.
type ColumnError struct {
	Missing   []string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing column(s) %s; available: %s",
		quoteJoin(e.Missing), quoteJoin(e.Available))
}

// Clean coerces numeric columns and applies the exclusion and rename rules.
// Cells that do not parse become missing values; only absent columns fail.
func Clean(t *dataset.Table, opt CleanOptions) (*Cleaned, error) {
	if t == nil {
		return nil, fmt.Errorf("clean: nil table")
	}
	if opt.SiteColumn == "" {
		return nil, fmt.Errorf("clean: site column not set")
	}
	var missing []string
	siteIdx, ok := t.Column(opt.SiteColumn)
	if !ok {
		missing = append(missing, opt.SiteColumn)
	}
	roleIdx := -1
	if opt.RoleColumn != "" {
		if roleIdx, ok = t.Column(opt.RoleColumn); !ok {
			missing = append(missing, opt.RoleColumn)
		}
	}
	numIdx := make([]int, len(opt.NumericColumns))
	for i, name := range opt.NumericColumns {
		idx, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
		}
		numIdx[i] = idx
	}
	if len(missing) > 0 {
		return nil, &ColumnError{Missing: missing, Available: t.Header}
	}

	exclude := make(map[string]struct{}, len(opt.Exclude))
	for _, s := range opt.Exclude {
		exclude[strings.TrimSpace(s)] = struct{}{}
	}

	rename := make(map[string]string, len(opt.Rename))
	for from, to := range opt.Rename {
		rename[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}

	out := &Cleaned{
		Rows:      len(t.Rows),
		Malformed: map[string]int{},
		Empty:     map[string]int{},
	}
	for i, rec := range t.Rows {
		raw := strings.TrimSpace(cell(rec, siteIdx))
		if raw == "" {
			out.Unkeyed++
			continue
		}
		if _, drop := exclude[raw]; drop {
			out.Excluded++
			continue
		}
		site := raw
		if canon, ok := rename[raw]; ok {
			site = canon
		}
		if _, drop := exclude[site]; drop {
			out.Excluded++
			continue
		}
		o := Observation{Row: i + 1, RawSite: raw, Site: site, Values: make(map[string]Num, len(numIdx))}
		if roleIdx >= 0 {
			o.Role = strings.TrimSpace(cell(rec, roleIdx))
		}
		for j, name := range opt.NumericColumns {
			v := cell(rec, numIdx[j])
			if strings.TrimSpace(v) == "" {
				out.Empty[name]++
				o.Values[name] = Num{}
				continue
			}
			x, ok := ParseNumber(v, opt.Number)
			if !ok {
				out.Malformed[name]++
				o.Values[name] = Num{}
				continue
			}
			o.Values[name] = Some(x)
		}
		out.Observations = append(out.Observations, o)
	}
	return out, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func quoteJoin(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, ", ")
}
