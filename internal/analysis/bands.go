package analysis

import (
	"fmt"
	"sort"
)

// Band maps a closed interval [Low, High] to a trophic classification.
type Band struct {
	Low   float64 `yaml:"low" json:"low"`
	High  float64 `yaml:"high" json:"high"`
	Label string  `yaml:"label" json:"label"`
	Color string  `yaml:"color" json:"color"`
}

// Contains reports whether v lies in the closed interval.
func (b Band) Contains(v float64) bool { return v >= b.Low && v <= b.High }

// BandSet is one classification table and the chart axis it shades.
type BandSet struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	// Axis is "x" or "y".
	Axis  string `yaml:"axis" json:"axis"`
	Bands []Band `yaml:"bands" json:"bands"`
}

// Classify returns the first band, in declared order, containing v. Shared
// breakpoints therefore belong to the lower band.
func (s *BandSet) Classify(v float64) (Band, bool) {
	if s == nil {
		return Band{}, false
	}
	for _, b := range s.Bands {
		if b.Contains(v) {
			return b, true
		}
	}
	return Band{}, false
}

// Range returns the lowest Low and highest High across bands.
func (s *BandSet) Range() (lo, hi float64, ok bool) {
	if s == nil || len(s.Bands) == 0 {
		return 0, 0, false
	}
	lo, hi = s.Bands[0].Low, s.Bands[0].High
	for _, b := range s.Bands[1:] {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	return lo, hi, true
}

// Validate checks axis and interval bounds.
func (s *BandSet) Validate() error {
	if s.Axis != "x" && s.Axis != "y" {
		return fmt.Errorf("band set %q: axis must be x or y, got %q", s.Name, s.Axis)
	}
	if len(s.Bands) == 0 {
		return fmt.Errorf("band set %q: no bands", s.Name)
	}
	for i, b := range s.Bands {
		if b.High < b.Low {
			return fmt.Errorf("band set %q: band %d (%s) has high %.4g below low %.4g", s.Name, i+1, b.Label, b.High, b.Low)
		}
	}
	return nil
}

// Breakpoints, axis and labels differ between the Yellowstone and Tetons
// tables and must not be merged. The two lowest Tetons bands carry Carlson
// labels on the Vollen axis.
var builtinBands = map[string]BandSet{
	"carlson": {
		Name:  "carlson",
		Title: "Carlson Trophic Categories",
		Axis:  "x",
		Bands: []Band{
			{33, 38, "Slightly Oligotrophic (Carlson)", "#5dade2"},
			{38, 43, "Slightly Mesotrophic (Carlson)", "#d5f5e3"},
			{43, 49, "Mesotrophic (Carlson)", "#82e0aa"},
			{49, 54, "Strongly Mesotrophic (Carlson)", "#28b463"},
			{54, 58, "Slightly Eutrophic (Carlson)", "#f9e79f"},
			{58, 62, "Eutrophic (Carlson)", "#f5b041"},
			{62, 65, "Strongly Eutrophic (Carlson)", "#d35400"},
			{65, 70, "Slightly Hypereutrophic (Carlson)", "#c0392b"},
		},
	},
	"tetons-vollen": {
		Name:  "tetons-vollen",
		Title: "Vollen Trophic Categories",
		Axis:  "y",
		Bands: []Band{
			{20, 26, "Strongly Oligotrophic (Carlson)", "#0051e9"},
			{26, 33, "Oligotrophic (Carlson)", "#1d9df2"},
			{33, 38, "Slightly Oligotrophic (Vollen)", "#5dade2"},
			{38, 43, "Slightly Mesotrophic (Vollen)", "#d5f5e3"},
			{43, 49, "Mesotrophic (Vollen)", "#82e0aa"},
			{49, 54, "Strongly Mesotrophic (Vollen)", "#28b463"},
			{54, 58, "Slightly Eutrophic (Vollen)", "#f9e79f"},
			{58, 62, "Eutrophic (Vollen)", "#f5b041"},
			{62, 65, "Strongly Eutrophic (Vollen)", "#d35400"},
			{65, 70, "Slightly Hypereutrophic (Vollen)", "#c0392b"},
		},
	},
}

// LookupBands returns a copy of a built-in band set.
func LookupBands(name string) (*BandSet, error) {
	bs, ok := builtinBands[name]
	if !ok {
		return nil, fmt.Errorf("unknown band set %q (available: %v)", name, BandSetNames())
	}
	cp := bs
	cp.Bands = append([]Band(nil), bs.Bands...)
	return &cp, nil
}

// BandSetNames lists built-in band sets in sorted order.
func BandSetNames() []string {
	names := make([]string, 0, len(builtinBands))
	for k := range builtinBands {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
