// Package chart renders pipeline results with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/limnoplot/internal/analysis"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options control chart geometry.
type Options struct {
	WidthIn  float64
	HeightIn float64
	FontSize float64 // label size in points
}

// DefaultOptions returns a 10x8 inch canvas with 8pt labels.
func DefaultOptions() Options {
	return Options{WidthIn: 10, HeightIn: 8, FontSize: 8}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.WidthIn <= 0 {
		o.WidthIn = d.WidthIn
	}
	if o.HeightIn <= 0 {
		o.HeightIn = d.HeightIn
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

// ErrNoData is returned when a result carries nothing to draw.
var ErrNoData = errors.New("no sites to plot")

var (
	fitColor    = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	pointColor  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	leaderColor = color.Gray{Y: 128}
	palette     = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}
)

// hexColor turns "#rrggbb" into a colour with the given alpha (0-255).
func hexColor(hex string, alpha uint8) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// seriesColor uses the series colour or the i-th palette entry.
func seriesColor(s analysis.Series, i int) (color.Color, error) {
	hex := s.Color
	if hex == "" {
		hex = palette[i%len(palette)]
	}
	return hexColor(hex, 255)
}

// barLabel names the value axis when every series shares one column.
func barLabel(a *analysis.Aggregate) string {
	if len(a.Series) == 0 {
		return ""
	}
	for _, s := range a.Series[1:] {
		if s.Field != a.Series[0].Field {
			return ""
		}
	}
	return a.Label(a.Series[0].Name)
}

// axisRange picks the square axis range: profile limits, then band range,
// then the data extent padded by 5%.
func axisRange(res *analysis.Result, prof analysis.Profile, xs, ys []float64) (float64, float64) {
	if prof.Chart.Max > prof.Chart.Min {
		return prof.Chart.Min, prof.Chart.Max
	}
	if lo, hi, ok := res.Bands.Range(); ok {
		return lo, hi
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range append(append([]float64(nil), xs...), ys...) {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// Scatter draws site means against each other with shaded bands, the fitted
// line, de-overlapped site labels and the R² note.
func Scatter(res *analysis.Result, prof analysis.Profile, opt Options) (*plot.Plot, error) {
	opt = opt.normalized()
	if res == nil || res.Summary == nil || len(res.Summary.Sites) == 0 {
		return nil, ErrNoData
	}
	if res.Fit == nil {
		return nil, errors.New("scatter chart needs a fitted line")
	}
	xs := res.Summary.Column(res.Fit.XSeries)
	ys := res.Summary.Column(res.Fit.YSeries)
	names := res.Summary.Names()
	lo, hi := axisRange(res, prof, xs, ys)

	p := plot.New()
	p.Title.Text = prof.Chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = firstNonEmpty(prof.Chart.XLabel, res.Summary.Label(res.Fit.XSeries))
	p.Y.Label.Text = firstNonEmpty(prof.Chart.YLabel, res.Summary.Label(res.Fit.YSeries))
	p.Legend.Top = true
	p.Legend.Left = true

	if res.Bands != nil {
		for _, b := range res.Bands.Bands {
			fill, err := hexColor(b.Color, 128)
			if err != nil {
				return nil, err
			}
			var xy plotter.XYs
			if res.Bands.Axis == "y" {
				xy = plotter.XYs{{X: lo, Y: b.Low}, {X: hi, Y: b.Low}, {X: hi, Y: b.High}, {X: lo, Y: b.High}}
			} else {
				xy = plotter.XYs{{X: b.Low, Y: lo}, {X: b.High, Y: lo}, {X: b.High, Y: hi}, {X: b.Low, Y: hi}}
			}
			poly, err := plotter.NewPolygon(xy)
			if err != nil {
				return nil, fmt.Errorf("band %s: %w", b.Label, err)
			}
			poly.Color = fill
			poly.LineStyle.Width = 0
			p.Add(poly)
			p.Legend.Add(b.Label, poly)
		}
	}

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)

	fit, err := plotter.NewLine(plotter.XYs{{X: lo, Y: res.Fit.Predict(lo)}, {X: hi, Y: res.Fit.Predict(hi)}})
	if err != nil {
		return nil, fmt.Errorf("fit line: %w", err)
	}
	fit.LineStyle.Color = fitColor
	fit.LineStyle.Width = vg.Points(1.5)
	fit.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(fit)
	p.Legend.Add(fmt.Sprintf("Linear fit (slope = %.2f): %s", res.Fit.Slope, res.Fit.Equation()), fit)

	if err := addSiteLabels(p, pts, names, lo, hi, opt); err != nil {
		return nil, err
	}

	ax, ay := prof.Chart.AnnotateX, prof.Chart.AnnotateY
	if ax == 0 && ay == 0 {
		ax, ay = lo+(hi-lo)*0.05, hi-(hi-lo)*0.08
	}
	note, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: ax, Y: ay}},
		Labels: []string{fmt.Sprintf("R² = %.2f", res.Fit.RSquared)},
	})
	if err != nil {
		return nil, fmt.Errorf("r2 note: %w", err)
	}
	note.TextStyle[0].Font.Size = vg.Points(opt.FontSize + 4)
	p.Add(note)

	p.Add(plotter.NewGrid())
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = lo, hi
	return p, nil
}

func addSiteLabels(p *plot.Plot, pts plotter.XYs, names []string, lo, hi float64, opt Options) error {
	// assume the data area is ~80% of the canvas in each direction
	span := hi - lo
	g := Glyph{
		W: opt.FontSize * 0.6 / (opt.WidthIn * 72 * 0.8) * span,
		H: opt.FontSize * 1.3 / (opt.HeightIn * 72 * 0.8) * span,
	}
	in := make([]Point, len(pts))
	for i, xy := range pts {
		in[i] = Point{X: xy.X, Y: xy.Y}
	}
	boxes := LayoutLabels(in, names, g, Rect{MinX: lo, MinY: lo, MaxX: hi, MaxY: hi})

	anchors := make([]plotter.XY, len(boxes))
	for i, b := range boxes {
		anchors[i] = plotter.XY{X: b.MinX, Y: b.MinY}
		near := b.Nearest(in[i])
		if math.Hypot(near.X-in[i].X, near.Y-in[i].Y) > g.H {
			leader, err := plotter.NewLine(plotter.XYs{{X: in[i].X, Y: in[i].Y}, {X: near.X, Y: near.Y}})
			if err != nil {
				return fmt.Errorf("leader for %s: %w", names[i], err)
			}
			leader.LineStyle.Color = leaderColor
			leader.LineStyle.Width = vg.Points(0.5)
			p.Add(leader)
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: anchors, Labels: names})
	if err != nil {
		return fmt.Errorf("site labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(opt.FontSize)
	}
	p.Add(labels)
	return nil
}

// Bars draws one group per site with a bar for each series.
func Bars(res *analysis.Result, prof analysis.Profile, opt Options) (*plot.Plot, error) {
	opt = opt.normalized()
	if res == nil || res.Summary == nil || len(res.Summary.Sites) == 0 {
		return nil, ErrNoData
	}
	series := res.Summary.Series
	p := plot.New()
	p.Title.Text = prof.Chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = prof.Chart.XLabel
	p.Y.Label.Text = firstNonEmpty(prof.Chart.YLabel, barLabel(res.Summary))
	p.Legend.Top = true

	// keep each group within ~80% of one category slot
	slot := vg.Points(opt.WidthIn * 72 * 0.8 / float64(len(res.Summary.Sites)))
	width := slot * 0.8 / vg.Length(len(series))
	for i, s := range series {
		vals := plotter.Values(res.Summary.Column(s.Name))
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return nil, fmt.Errorf("bars %s: %w", s.Name, err)
		}
		c, err := seriesColor(s, i)
		if err != nil {
			return nil, err
		}
		bars.Color = c
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(len(series)-1)/2) * width
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.NominalX(res.Summary.Names()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	return p, nil
}

// Render picks the chart kind of the profile.
func Render(res *analysis.Result, prof analysis.Profile, opt Options) (*plot.Plot, error) {
	switch prof.ChartKind() {
	case analysis.ChartBar:
		return Bars(res, prof, opt)
	default:
		return Scatter(res, prof, opt)
	}
}

var formats = map[string]bool{".png": true, ".svg": true, ".pdf": true, ".jpg": true, ".jpeg": true, ".eps": true, ".tif": true, ".tiff": true}

// Save writes the plot; the format follows the file extension.
func Save(p *plot.Plot, path string, opt Options) error {
	opt = opt.normalized()
	ext := strings.ToLower(filepath.Ext(path))
	if !formats[ext] {
		return fmt.Errorf("unsupported chart format %q (use .png, .svg or .pdf)", ext)
	}
	if err := p.Save(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
