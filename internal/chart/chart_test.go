package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/KaramelBytes/limnoplot/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutLabelsKeepsFreeLabelInPlace(t *testing.T) {
	g := Glyph{W: 1, H: 2}
	boxes := LayoutLabels([]Point{{X: 10, Y: 10}}, []string{"Swan"}, g, Rect{MaxX: 100, MaxY: 100})
	require.Len(t, boxes, 1)
	assert.Equal(t, Rect{MinX: 10.5, MinY: 10.5, MaxX: 14.5, MaxY: 12.5}, boxes[0])
}

func TestLayoutLabelsNoOverlap(t *testing.T) {
	g := Glyph{W: 1, H: 2}
	pts := []Point{{50, 50}, {50, 50}, {50.5, 50.2}, {51, 50}, {49, 49.5}, {50, 51}, {80, 20}}
	labels := []string{"Swan Lake", "String Lake", "Moose Pond", "Jenny Lake", "Two Ocean", "Phelps Lake", "Delta Lake"}
	bounds := Rect{MaxX: 100, MaxY: 100}
	boxes := LayoutLabels(pts, labels, g, bounds)
	require.Len(t, boxes, len(pts))
	for i := range boxes {
		assert.True(t, boxes[i].Within(bounds), "box %d outside bounds", i)
		for j := i + 1; j < len(boxes); j++ {
			assert.False(t, boxes[i].Overlaps(boxes[j]), "%s overlaps %s", labels[i], labels[j])
		}
	}
}

func TestRectNearest(t *testing.T) {
	r := Rect{MinX: 1, MinY: 1, MaxX: 3, MaxY: 2}
	assert.Equal(t, Point{X: 1, Y: 1}, r.Nearest(Point{X: 0, Y: 0}))
	assert.Equal(t, Point{X: 2, Y: 1.5}, r.Nearest(Point{X: 2, Y: 1.5}))
}

func result(t *testing.T, prof analysis.Profile, header []string, rows ...[]string) *analysis.Result {
	t.Helper()
	res, err := analysis.RunTable(&dataset.Table{Name: "t.csv", Header: header, Rows: rows}, prof)
	require.NoError(t, err)
	return res
}

func TestScatterWritesPNG(t *testing.T) {
	prof, err := analysis.FindProfile("yellowstone-carlson", nil)
	require.NoError(t, err)
	res := result(t, prof, []string{"Site", "Carlson  TSI", "Vollen"},
		[]string{"Shoshone Lake", "35", "37"},
		[]string{"Lewis Lake", "45", "44"},
		[]string{"Heart Lake", "45.2", "44.5"},
		[]string{"Yellowstone Lake", "52", "55"},
	)
	p, err := Scatter(res, prof, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 33.0, p.X.Min)
	assert.Equal(t, 70.0, p.Y.Max)

	out := filepath.Join(t.TempDir(), "carlson.png")
	require.NoError(t, Save(p, out, Options{WidthIn: 4, HeightIn: 3}))
	st, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestScatterNeedsFit(t *testing.T) {
	prof, _ := analysis.FindProfile("inlet-inlake-phosphorus", nil)
	res := result(t, prof, []string{"Site", "Location", "Total Phosphorus (mg/L)"},
		[]string{"Lake A", "Inlet", "0.02"},
		[]string{"Lake A", "Inlake", "0.01"},
	)
	_, err := Scatter(res, prof, DefaultOptions())
	assert.Error(t, err)
}

func TestBarsWritesSVG(t *testing.T) {
	prof, _ := analysis.FindProfile("inlet-inlake-phosphorus", nil)
	res := result(t, prof, []string{"Site", "Location", "Total Phosphorus (mg/L)"},
		[]string{"Lake A", "Inlet", "0.02"},
		[]string{"Lake A", "Inlake", "0.01"},
		[]string{"Lake B", "Inlet", "0.05"},
		[]string{"Lake B", "Inlake", "0.03"},
	)
	p, err := Render(res, prof, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Comparison of Inlet vs In-lake Phosphorus by Lake", p.Title.Text)

	out := filepath.Join(t.TempDir(), "phosphorus.svg")
	require.NoError(t, Save(p, out, DefaultOptions()))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
}

func TestEmptyResult(t *testing.T) {
	_, err := Bars(&analysis.Result{Summary: &analysis.Aggregate{}}, analysis.Profile{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	prof, _ := analysis.FindProfile("inlet-inlake-phosphorus", nil)
	res := result(t, prof, []string{"Site", "Location", "Total Phosphorus (mg/L)"},
		[]string{"Lake A", "Inlet", "0.02"},
		[]string{"Lake A", "Inlake", "0.01"},
	)
	p, err := Bars(res, prof, DefaultOptions())
	require.NoError(t, err)
	assert.ErrorContains(t, Save(p, filepath.Join(t.TempDir(), "x.bmp"), DefaultOptions()), "unsupported chart format")
}

func TestHexColor(t *testing.T) {
	c, err := hexColor("#0051e9", 128)
	require.NoError(t, err)
	r, g, b, a := c.RGBA()
	assert.Equal(t, uint32(128)<<8|128, a)
	assert.Less(t, r, g)
	assert.Less(t, g, b)
	_, err = hexColor("blue", 255)
	assert.Error(t, err)
}

func TestSeriesColorPrefersSeries(t *testing.T) {
	prof, _ := analysis.FindProfile("inlet-inlake-phosphorus", nil)
	c, err := seriesColor(prof.Series[0], 0)
	require.NoError(t, err)
	r, g, b, _ := c.RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})

	c, err = seriesColor(prof.Series[1], 1)
	require.NoError(t, err)
	r, g, b, _ = c.RGBA()
	assert.Equal(t, []uint32{0, 0, 0xffff}, []uint32{r, g, b})

	c, err = seriesColor(analysis.Series{Name: "x"}, 1)
	require.NoError(t, err)
	want, _ := hexColor(palette[1], 255)
	assert.Equal(t, want, c)
}

func TestDefaultAxisLabelsCarryUnits(t *testing.T) {
	prof := analysis.Profile{
		Name: "ad-hoc", SiteColumn: "Site", RoleColumn: "Location",
		NumericColumns: []string{"Total Phosphorus (mg/L)"},
		Series: []analysis.Series{
			{Name: "Inlet", Field: "Total Phosphorus (mg/L)", Role: "Inlet"},
			{Name: "Inlake", Field: "Total Phosphorus (mg/L)", Role: "Inlake"},
		},
		Chart: analysis.ChartSpec{Kind: analysis.ChartBar},
	}
	res := result(t, prof, []string{"Site", "Location", "Total Phosphorus (mg/L)"},
		[]string{"Lake A", "Inlet", "0.02"},
		[]string{"Lake A", "Inlake", "0.01"},
	)
	p, err := Bars(res, prof, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Mean Total Phosphorus (mg/L)", p.Y.Label.Text)

	sp := analysis.Profile{
		Name: "s", SiteColumn: "Site", NumericColumns: []string{"Chlorophyll [ug/L]", "Secchi"},
		Fit: &analysis.FitSpec{X: "Chlorophyll [ug/L]", Y: "Secchi"},
	}
	res = result(t, sp, []string{"Site", "Chlorophyll [ug/L]", "Secchi"},
		[]string{"A", "1", "2"},
		[]string{"B", "2", "3"},
	)
	p, err = Scatter(res, sp, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Mean Chlorophyll (ug/L)", p.X.Label.Text)
	assert.Equal(t, "Mean Secchi", p.Y.Label.Text)
}
