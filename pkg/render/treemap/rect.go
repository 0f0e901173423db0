package treemap

import "math"

// Rect is an axis-aligned rectangle with X1 >= X0 and Y1 >= Y0.
// Y grows downwards, as in SVG.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// Contains reports whether (x, y) lies in the half-open rectangle
// [X0, X1) x [Y0, Y1). Adjacent rectangles therefore never both contain a
// point on their shared edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Overlaps reports whether r and o share interior area. A rectangle with
// no area overlaps nothing.
func (r Rect) Overlaps(o Rect) bool {
	if r.Width() <= 0 || r.Height() <= 0 || o.Width() <= 0 || o.Height() <= 0 {
		return false
	}
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Intersect returns the common part of r and o, or a zero-size rectangle
// at the clamped position when they do not meet.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X0: math.Max(r.X0, o.X0),
		Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
	}
	if out.X1 < out.X0 {
		out.X1 = out.X0
	}
	if out.Y1 < out.Y0 {
		out.Y1 = out.Y0
	}
	return out
}

// Inset shrinks r by d on every side. When r is too small the result
// collapses to a zero-size rectangle at r's center on that axis.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X0: r.X0 + d, Y0: r.Y0 + d, X1: r.X1 - d, Y1: r.Y1 - d}
	if out.X1 < out.X0 {
		cx := r.CenterX()
		out.X0, out.X1 = cx, cx
	}
	if out.Y1 < out.Y0 {
		cy := r.CenterY()
		out.Y0, out.Y1 = cy, cy
	}
	return out
}

// Outset grows r by d on every side.
func (r Rect) Outset(d float64) Rect {
	return Rect{X0: r.X0 - d, Y0: r.Y0 - d, X1: r.X1 + d, Y1: r.Y1 + d}
}

// Round rounds every coordinate to the nearest integer.
func (r Rect) Round() Rect {
	return Rect{
		X0: math.Round(r.X0),
		Y0: math.Round(r.Y0),
		X1: math.Round(r.X1),
		Y1: math.Round(r.Y1),
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (r Rect) finite() bool {
	return finite(r.X0) && finite(r.Y0) && finite(r.X1) && finite(r.Y1)
}
