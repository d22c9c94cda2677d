package chart

import "math"

// Point is a location in data coordinates.
type Point struct{ X, Y float64 }

// Rect is an axis-aligned box in data coordinates.
type Rect struct{ MinX, MinY, MaxX, MaxY float64 }

// Overlaps reports whether the interiors of r and o intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Within reports whether r lies inside b.
func (r Rect) Within(b Rect) bool {
	return r.MinX >= b.MinX && r.MaxX <= b.MaxX && r.MinY >= b.MinY && r.MaxY <= b.MaxY
}

// Nearest returns the point of r closest to p.
func (r Rect) Nearest(p Point) Point {
	return Point{X: math.Max(r.MinX, math.Min(p.X, r.MaxX)), Y: math.Max(r.MinY, math.Min(p.Y, r.MaxY))}
}

// Glyph is the data-space footprint of one label character.
type Glyph struct{ W, H float64 }

const (
	layoutSteps = 40
	layoutDirs  = 16
)

// LayoutLabels places one box per label, in order. A box starts just above
// and right of its point and is pushed outward along a spiral until it clears
// every box already placed. Boxes stay inside bounds when any clear position
// inside bounds exists.
func LayoutLabels(pts []Point, labels []string, g Glyph, bounds Rect) []Rect {
	out := make([]Rect, 0, len(pts))
	free := func(r Rect, bounded bool) bool {
		if bounded && !r.Within(bounds) {
			return false
		}
		for _, o := range out {
			if r.Overlaps(o) {
				return false
			}
		}
		return true
	}
	for i, p := range pts {
		w := g.W * float64(len([]rune(labelAt(labels, i))))
		h := g.H
		def := Rect{MinX: p.X + g.W/2, MinY: p.Y + h/4, MaxX: p.X + g.W/2 + w, MaxY: p.Y + h/4 + h}
		placed, ok := def, free(def, true)
		for _, bounded := range []bool{true, false} {
			if ok {
				break
			}
			placed, ok = spiral(p, w, h, g, func(r Rect) bool { return free(r, bounded) })
		}
		if !ok {
			placed = def
		}
		out = append(out, placed)
	}
	return out
}

func spiral(p Point, w, h float64, g Glyph, free func(Rect) bool) (Rect, bool) {
	for step := 1; step <= layoutSteps; step++ {
		r := float64(step) * g.H
		for d := 0; d < layoutDirs; d++ {
			a := 2 * math.Pi * float64(d) / layoutDirs
			cx, cy := p.X+r*math.Cos(a), p.Y+r*math.Sin(a)
			c := Rect{MinX: cx - w/2, MinY: cy - h/2, MaxX: cx + w/2, MaxY: cy + h/2}
			if free(c) {
				return c, true
			}
		}
	}
	return Rect{}, false
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}
