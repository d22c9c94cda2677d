package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/limnoplot/internal/dataset"
)

func table(header []string, rows ...[]string) *dataset.Table {
	return &dataset.Table{Name: "test.csv", Header: header, Rows: rows}
}

func TestCleanMalformedCellBecomesMissing(t *testing.T) {
	tab := table([]string{"Site", "val"},
		[]string{"A", "10"},
		[]string{"A", "20"},
		[]string{"B", "bad"},
		[]string{"B", "30"},
	)
	cl, err := Clean(tab, CleanOptions{SiteColumn: "Site", NumericColumns: []string{"val"}, Number: DefaultNumberFormat()})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(cl.Observations) != 4 {
		t.Fatalf("rows must survive a bad cell, got %d observations", len(cl.Observations))
	}
	if v := cl.Observations[2].Values["val"]; v.Valid {
		t.Fatalf("bad cell should be missing, got %+v", v)
	}
	if cl.Malformed["val"] != 1 {
		t.Fatalf("malformed count = %d, want 1", cl.Malformed["val"])
	}
}

func TestCleanExcludeAndRename(t *testing.T) {
	tab := table([]string{"Site", "Vollen"},
		[]string{"Hot Lake", "60"},
		[]string{"Trout Lake East", "40"},
		[]string{" Trout Lake West ", "50"},
		[]string{"", "1"},
		[]string{"Shoshone", "30"},
	)
	cl, err := Clean(tab, CleanOptions{
		SiteColumn:     "Site",
		NumericColumns: []string{"Vollen"},
		Rename:         map[string]string{"Trout Lake East": "Trout Lake", "Trout Lake West": "Trout Lake"},
		Exclude:        []string{"Hot Lake"},
		Number:         DefaultNumberFormat(),
	})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if cl.Excluded != 1 || cl.Unkeyed != 1 {
		t.Fatalf("excluded=%d unkeyed=%d", cl.Excluded, cl.Unkeyed)
	}
	var sites []string
	for _, o := range cl.Observations {
		if o.Site == "Hot Lake" {
			t.Fatalf("excluded site leaked: %+v", o)
		}
		sites = append(sites, o.Site)
	}
	if got := strings.Join(sites, ","); got != "Trout Lake,Trout Lake,Shoshone" {
		t.Fatalf("sites = %s", got)
	}
	if cl.Observations[1].RawSite != "Trout Lake West" {
		t.Fatalf("raw site not kept: %+v", cl.Observations[1])
	}
}

func TestCleanExcludeMatchesCanonicalName(t *testing.T) {
	tab := table([]string{"Site", "v"}, []string{"Lake A North", "1"}, []string{"Lake B", "2"})
	cl, err := Clean(tab, CleanOptions{
		SiteColumn:     "Site",
		NumericColumns: []string{"v"},
		Rename:         map[string]string{"Lake A North": "Lake A"},
		Exclude:        []string{"Lake A"},
	})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(cl.Observations) != 1 || cl.Observations[0].Site != "Lake B" {
		t.Fatalf("canonical exclusion failed: %+v", cl.Observations)
	}
}

func TestCleanRoleColumn(t *testing.T) {
	tab := table([]string{"Site", "Location", "TP"}, []string{"L1", " Inlet", "0.02"})
	cl, err := Clean(tab, CleanOptions{SiteColumn: "Site", RoleColumn: "Location", NumericColumns: []string{"TP"}})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if cl.Observations[0].Role != "Inlet" {
		t.Fatalf("role = %q", cl.Observations[0].Role)
	}
}

func TestCleanMissingColumns(t *testing.T) {
	tab := table([]string{"Site", "Vollen"})
	_, err := Clean(tab, CleanOptions{SiteColumn: "Lake", NumericColumns: []string{"Vollen", "Carlson  TSI"}})
	var ce *ColumnError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ColumnError, got %v", err)
	}
	if len(ce.Missing) != 2 || ce.Missing[0] != "Lake" || ce.Missing[1] != "Carlson  TSI" {
		t.Fatalf("missing = %#v", ce.Missing)
	}
	if !strings.Contains(err.Error(), `"Vollen"`) {
		t.Fatalf("error should list available columns: %v", err)
	}
}

func TestCleanZeroNumberFormatIsDotDecimal(t *testing.T) {
	tab := table([]string{"Site", "v"}, []string{"A", "1,000"}, []string{"A", "2.5"})
	cl, err := Clean(tab, CleanOptions{SiteColumn: "Site", NumericColumns: []string{"v"}})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if v := cl.Observations[0].Values["v"]; v.Valid {
		t.Fatalf("\"1,000\" must be missing without a thousands separator, got %+v", v)
	}
	if cl.Malformed["v"] != 1 {
		t.Fatalf("malformed count = %d, want 1", cl.Malformed["v"])
	}
	if v := cl.Observations[1].Values["v"]; !v.Valid || v.Value != 2.5 {
		t.Fatalf("2.5 should parse, got %+v", v)
	}
}

func TestCleanRenameKeysAreTrimmed(t *testing.T) {
	tab := table([]string{"Site", "v"}, []string{"Trout Lake East", "40"}, []string{" Trout Lake West", "50"})
	cl, err := Clean(tab, CleanOptions{
		SiteColumn:     "Site",
		NumericColumns: []string{"v"},
		Rename:         map[string]string{"Trout Lake East ": " Trout Lake", "  Trout Lake West": "Trout Lake "},
	})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	for _, o := range cl.Observations {
		if o.Site != "Trout Lake" {
			t.Fatalf("rename with padded keys missed %q -> %q", o.RawSite, o.Site)
		}
	}
}
