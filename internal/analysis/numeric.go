package analysis

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Num is a measurement that may be missing. Malformed and empty cells both
// become an invalid Num; they are never coerced to zero.
type Num struct {
	Value float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Num { return Num{Value: v, Valid: true} }

// MarshalJSON writes missing values as null.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// NumberFormat describes how numeric cells are written in a file. The zero
// value parses plain dot-decimal numbers.
type NumberFormat struct {
	// Decimal separator; 0 means '.'.
	Decimal rune
	// Thousands separator removed before parsing; 0 means none.
	Thousands rune
	// Auto guesses the decimal separator per value (',' vs '.') and strips
	// the other common separators. Decimal and Thousands are ignored.
	Auto bool
	// Percent allows a trailing or embedded '%' sign.
	Percent bool
}

// DefaultNumberFormat parses plain dot-decimal numbers only.
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{Decimal: '.'}
}

// ParseNumber parses one cell. It reports false for empty, malformed, NaN or
// infinite input.
func ParseNumber(s string, nf NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if nf.Percent && strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)

	dec := nf.Decimal
	if dec == 0 {
		dec = '.'
	}
	thou := nf.Thousands
	if nf.Auto {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
			} else {
				dec = '.'
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Total Phosphorus (mg/L)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Mass [mg/L]
	{regexp.MustCompile(`^(.*?)[_\s-]+(mg/L|g/L|ug/L|µg/L|°[CF]|%|ppm|ppb)$`), 2},
}

// SplitUnits separates a trailing unit from a column name, e.g.
// "Total Phosphorus (mg/L)" -> "Total Phosphorus", "mg/L".
func SplitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}
