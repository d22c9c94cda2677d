package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/limnoplot/internal/dataset"
	"github.com/lucasb-eyer/go-colorful"
)

// Chart kinds.
const (
	ChartScatter = "scatter"
	ChartBar     = "bar"
)

// FitSpec names the series on each axis of the regression.
type FitSpec struct {
	X string `yaml:"x" json:"x"`
	Y string `yaml:"y" json:"y"`
}

// ChartSpec carries rendering choices that belong to a profile.
type ChartSpec struct {
	Kind   string `yaml:"kind"`
	Title  string `yaml:"title,omitempty"`
	XLabel string `yaml:"x_label,omitempty"`
	YLabel string `yaml:"y_label,omitempty"`
	// Min/Max bound both axes of a scatter chart; zero values fall back to the band range.
	Min float64 `yaml:"min,omitempty"`
	Max float64 `yaml:"max,omitempty"`
	// AnnotateX/AnnotateY place the R² note in data coordinates.
	AnnotateX float64 `yaml:"annotate_x,omitempty"`
	AnnotateY float64 `yaml:"annotate_y,omitempty"`
}

// Profile is the complete configuration of one pipeline run.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	Format     string `yaml:"format,omitempty"`
	Delimiter  string `yaml:"delimiter,omitempty"`
	SheetName  string `yaml:"sheet_name,omitempty"`
	SheetIndex int    `yaml:"sheet_index,omitempty"`

	SiteColumn     string   `yaml:"site_column"`
	RoleColumn     string   `yaml:"role_column,omitempty"`
	NumericColumns []string `yaml:"numeric_columns"`
	Decimal        string   `yaml:"decimal,omitempty"`
	Thousands      string   `yaml:"thousands,omitempty"`
	// Percent accepts values written with a '%' sign.
	Percent        bool     `yaml:"percent,omitempty"`

	Rename    map[string]string `yaml:"rename,omitempty"`
	Exclude   []string          `yaml:"exclude,omitempty"`
	AllowList []string          `yaml:"allow_list,omitempty"`

	// Series defaults to one series per numeric column.
	Series  []Series  `yaml:"series,omitempty"`
	Fit     *FitSpec  `yaml:"fit,omitempty"`
	Bands   string    `yaml:"bands,omitempty"`
	BandSet *BandSet  `yaml:"band_set,omitempty"`
	Chart   ChartSpec `yaml:"chart"`
}

// ResolvedSeries returns the explicit series or one per numeric column.
func (p Profile) ResolvedSeries() []Series {
	if len(p.Series) > 0 {
		return p.Series
	}
	out := make([]Series, len(p.NumericColumns))
	for i, c := range p.NumericColumns {
		out[i] = Series{Name: c, Field: c}
	}
	return out
}

// ResolveBands returns the inline band set, the named built-in set, or nil.
func (p Profile) ResolveBands() (*BandSet, error) {
	if p.BandSet != nil {
		return p.BandSet, nil
	}
	if p.Bands == "" {
		return nil, nil
	}
	return LookupBands(p.Bands)
}

// NumberFormat builds the numeric parsing rules from the profile strings.
func (p Profile) NumberFormat() (NumberFormat, error) {
	nf := DefaultNumberFormat()
	nf.Percent = p.Percent
	switch strings.ToLower(strings.TrimSpace(p.Decimal)) {
	case "", ".", "dot":
	case ",", "comma":
		nf.Decimal = ','
	case "auto":
		nf.Auto = true
	default:
		return nf, fmt.Errorf("unsupported decimal: %s (use '.'|'comma'|'auto')", p.Decimal)
	}
	switch strings.ToLower(p.Thousands) {
	case "":
	case ",":
		nf.Thousands = ','
	case ".":
		nf.Thousands = '.'
	case "space", " ":
		nf.Thousands = ' '
	default:
		return nf, fmt.Errorf("unsupported thousands: %s (use ','|'.'|'space')", p.Thousands)
	}
	return nf, nil
}

// LoadOptions translates the input section of the profile.
func (p Profile) LoadOptions() (dataset.LoadOptions, error) {
	format, err := dataset.ParseFormat(p.Format)
	if err != nil {
		return dataset.LoadOptions{}, err
	}
	opt := dataset.LoadOptions{Format: format, SheetName: p.SheetName, SheetIndex: p.SheetIndex}
	switch p.Delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %s", p.Delimiter)
	}
	return opt, nil
}

// CleanOptions translates the cleaning section of the profile.
func (p Profile) CleanOptions() (CleanOptions, error) {
	nf, err := p.NumberFormat()
	if err != nil {
		return CleanOptions{}, err
	}
	return CleanOptions{
		SiteColumn:     p.SiteColumn,
		RoleColumn:     p.RoleColumn,
		NumericColumns: p.NumericColumns,
		Rename:         p.Rename,
		Exclude:        p.Exclude,
		Number:         nf,
	}, nil
}

// Validate reports configuration mistakes before any file is read.
func (p Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(p.SiteColumn) == "" {
		errs = append(errs, errors.New("site_column is required"))
	}
	if len(p.NumericColumns) == 0 {
		errs = append(errs, errors.New("numeric_columns must list at least one column"))
	}
	numeric := map[string]bool{}
	for _, c := range p.NumericColumns {
		numeric[c] = true
	}
	names := map[string]bool{}
	for _, s := range p.ResolvedSeries() {
		if s.Name == "" {
			errs = append(errs, errors.New("series name is required"))
		}
		if names[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate series %q", s.Name))
		}
		names[s.Name] = true
		if !numeric[s.Field] {
			errs = append(errs, fmt.Errorf("series %q uses %q which is not a numeric column", s.Name, s.Field))
		}
		if s.Role != "" && p.RoleColumn == "" {
			errs = append(errs, fmt.Errorf("series %q filters by role but role_column is not set", s.Name))
		}
		if s.Color != "" {
			if _, err := colorful.Hex(s.Color); err != nil {
				errs = append(errs, fmt.Errorf("series %q color %q is not #rrggbb", s.Name, s.Color))
			}
		}
	}
	if p.Fit != nil {
		if !names[p.Fit.X] {
			errs = append(errs, fmt.Errorf("fit x %q is not a series", p.Fit.X))
		}
		if !names[p.Fit.Y] {
			errs = append(errs, fmt.Errorf("fit y %q is not a series", p.Fit.Y))
		}
	}
	switch p.Chart.Kind {
	case "", ChartScatter:
		if p.Fit == nil {
			errs = append(errs, errors.New("scatter chart needs a fit (x and y series)"))
		}
	case ChartBar:
	default:
		errs = append(errs, fmt.Errorf("unknown chart kind %q (use scatter|bar)", p.Chart.Kind))
	}
	if p.Chart.Max < p.Chart.Min {
		errs = append(errs, fmt.Errorf("chart max %.4g below min %.4g", p.Chart.Max, p.Chart.Min))
	}
	if bs, err := p.ResolveBands(); err != nil {
		errs = append(errs, err)
	} else if bs != nil {
		if err := bs.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := p.NumberFormat(); err != nil {
		errs = append(errs, err)
	}
	if _, err := p.LoadOptions(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("profile %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

// ChartKind returns the chart kind with scatter as the default.
func (p Profile) ChartKind() string {
	if p.Chart.Kind == "" {
		return ChartScatter
	}
	return p.Chart.Kind
}

var tetonsSites = []string{
	"Two Ocean", "Moose Pond", "Swan Lake", "String Lake", "Emma Matilda", "Phelps Lake",
	"Bradley Lake", "Taggart Lake", "Holly Lake", "Delta Lake", "Lake Solitude",
	"Lake of the Crags", "Christian Pond", "Cygnet Pond", "Oxbow Bend", "Surprise Lake",
	"Amphitheater Lake",
}

// BuiltinProfiles returns the three survey profiles shipped with the tool.
func BuiltinProfiles() []Profile {
	return []Profile{
		{
			Name:           "yellowstone-carlson",
			Description:    "Yellowstone lakes: mean Carlson TSI vs mean Vollen, Carlson bands on x",
			Format:         "xlsx",
			SiteColumn:     "Site",
			NumericColumns: []string{"Carlson  TSI", "Vollen"},
			Rename:         map[string]string{"Trout Lake East": "Trout Lake", "Trout Lake West": "Trout Lake"},
			Exclude:        []string{"Hot Lake"},
			Series: []Series{
				{Name: "carlson", Field: "Carlson  TSI"},
				{Name: "vollen", Field: "Vollen"},
			},
			Fit:   &FitSpec{X: "carlson", Y: "vollen"},
			Bands: "carlson",
			Chart: ChartSpec{
				Kind: ChartScatter, XLabel: "Mean Carlson TSI", YLabel: "Mean Vollen",
				Min: 33, Max: 70, AnnotateX: 35, AnnotateY: 65,
			},
		},
		{
			Name:           "tetons-vollen",
			Description:    "Grand Teton lakes: mean Carlson TSI vs mean Vollen TSI, Vollen bands on y",
			Format:         "csv",
			SiteColumn:     "Site",
			NumericColumns: []string{"Carlson  TSI", "Vollen TSI"},
			AllowList:      append([]string(nil), tetonsSites...),
			Series: []Series{
				{Name: "carlson", Field: "Carlson  TSI"},
				{Name: "vollen", Field: "Vollen TSI"},
			},
			Fit:   &FitSpec{X: "carlson", Y: "vollen"},
			Bands: "tetons-vollen",
			Chart: ChartSpec{
				Kind: ChartScatter, XLabel: "Mean Carlson TSI", YLabel: "Mean Vollen",
				Min: 20, Max: 70, AnnotateX: 35, AnnotateY: 65,
			},
		},
		{
			Name:           "inlet-inlake-phosphorus",
			Description:    "Yellowstone lakes: mean inlet vs in-lake total phosphorus per lake",
			Format:         "csv",
			SiteColumn:     "Site",
			RoleColumn:     "Location",
			NumericColumns: []string{"Total Phosphorus (mg/L)"},
			Series: []Series{
				{Name: "Inlet Phosphorus", Field: "Total Phosphorus (mg/L)", Role: "Inlet", Color: "#ff0000"},
				{Name: "In-lake Phosphorus", Field: "Total Phosphorus (mg/L)", Role: "Inlake", Color: "#0000ff"},
			},
			Chart: ChartSpec{
				Kind:   ChartBar,
				Title:  "Comparison of Inlet vs In-lake Phosphorus by Lake",
				XLabel: "Lakes", YLabel: "Mean Phosphorus (mg/L)",
			},
		},
	}
}

// FindProfile looks a profile up by name among extra (first) then built-ins.
func FindProfile(name string, extra []Profile) (Profile, error) {
	for _, p := range extra {
		if p.Name == name {
			return p, nil
		}
	}
	for _, p := range BuiltinProfiles() {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(ProfileNames(extra), ", "))
}

// ProfileNames lists every known profile name, sorted and de-duplicated.
func ProfileNames(extra []Profile) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range append(append([]Profile(nil), extra...), BuiltinProfiles()...) {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}
