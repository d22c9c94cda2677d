package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".", c.OutputDir)
	assert.Equal(t, "png", c.ChartFormat)
	assert.Equal(t, 10.0, c.ChartWidthIn)
	assert.Equal(t, 8.0, c.ChartHeightIn)
	assert.Equal(t, 8.0, c.LabelFontSize)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{OutputDir: "out", ChartFormat: "svg", ChartWidthIn: 6, ChartHeightIn: 5, LabelFontSize: 9, ProfilesFile: "p.yaml"}
	require.NoError(t, Save(in, path))
	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(&Global{ChartFormat: "svg"}, path))
	t.Setenv("LIMNOPLOT_CHART_FORMAT", "pdf")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf", got.ChartFormat)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unclosed\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "read config")
}

const profilesYAML = `profiles:
  - name: lake-survey
    format: csv
    site_column: Lake
    numeric_columns: ["TSI (chl)", "TSI (SD)"]
    decimal: comma
    exclude: ["Hot Lake"]
    fit: {x: "TSI (chl)", y: "TSI (SD)"}
    bands: carlson
    chart:
      kind: scatter
      min: 30
      max: 70
`

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profilesYAML), 0o644))
	ps, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	p := ps[0]
	assert.Equal(t, "lake-survey", p.Name)
	assert.Equal(t, []string{"TSI (chl)", "TSI (SD)"}, p.NumericColumns)
	assert.Equal(t, &analysis.FitSpec{X: "TSI (chl)", Y: "TSI (SD)"}, p.Fit)
	assert.Equal(t, 70.0, p.Chart.Max)
	nf, err := p.NumberFormat()
	require.NoError(t, err)
	assert.Equal(t, ',', nf.Decimal)
}

func TestLoadProfilesRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - name: x\n    site_colum: Site\n"), 0o644))
	_, err := LoadProfiles(path)
	assert.ErrorContains(t, err, "site_colum")
}

func TestLoadProfilesValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	body := "profiles:\n  - name: a\n    site_column: Site\n    numeric_columns: [v]\n    chart: {kind: bar}\n  - name: a\n    site_column: Site\n    numeric_columns: [v]\n    chart: {kind: bar}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	_, err := LoadProfiles(path)
	assert.ErrorContains(t, err, `duplicate profile "a"`)
}

func TestProfilesRoundTripBuiltins(t *testing.T) {
	b, err := MarshalProfiles(analysis.BuiltinProfiles())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	ps, err := LoadProfiles(path)
	require.NoError(t, err)
	if diff := cmp.Diff(analysis.BuiltinProfiles(), ps); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProfilesEmptyPath(t *testing.T) {
	ps, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Nil(t, ps)
}
