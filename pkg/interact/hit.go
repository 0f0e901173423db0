package interact

import (
	"strconv"

	"github.com/matzehuels/crashviz/pkg/render/stack"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

// Point is a position in chart pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// =============================================================================
// Treemap
// =============================================================================

// TreemapIndex resolves points to treemap leaves.
type TreemapIndex struct {
	leaves []*treemap.Node
}

// NewTreemapIndex indexes the drawn leaves of a laid-out tree. A root with
// nothing placed under it is the empty chart and resolves nothing.
func NewTreemapIndex(root *treemap.Node) *TreemapIndex {
	if root == nil {
		return &TreemapIndex{}
	}
	var leaves []*treemap.Node
	for _, l := range root.Leaves() {
		if l.Depth > 0 {
			leaves = append(leaves, l)
		}
	}
	return &TreemapIndex{leaves: leaves}
}

// Resolve returns the leaf whose rectangle contains p.
func (ix *TreemapIndex) Resolve(p Point) (*treemap.Node, bool) {
	for _, l := range ix.leaves {
		if l.Contains(p.X, p.Y) {
			return l, true
		}
	}
	return nil, false
}

// =============================================================================
// Series
// =============================================================================

// Interval is a span of years on the series x-axis. It is half-open,
// [Start, End), except for the last interval of an index, which is closed
// so that it includes the largest year.
type Interval struct {
	Start  int  `json:"start"`
	End    int  `json:"end"`
	Closed bool `json:"closed,omitempty"`
}

// Contains reports whether x lies in the interval.
func (iv Interval) Contains(x float64) bool {
	if x < float64(iv.Start) {
		return false
	}
	if iv.Closed {
		return x <= float64(iv.End)
	}
	return x < float64(iv.End)
}

// LastYear returns the largest whole year in the interval.
func (iv Interval) LastYear() int {
	if iv.Closed {
		return iv.End
	}
	return iv.End - 1
}

// Label formats the interval as an inclusive year range.
func (iv Interval) Label() string {
	last := iv.LastYear()
	if last <= iv.Start {
		return strconv.Itoa(iv.Start)
	}
	return strconv.Itoa(iv.Start) + "-" + strconv.Itoa(last)
}

// SeriesIndex resolves x values to decade intervals.
type SeriesIndex struct {
	Intervals []Interval
}

// NewSeriesIndex splits [minX, maxX] at every multiple of 10 strictly inside
// it. The first interval starts at minX and the last one is closed at maxX.
func NewSeriesIndex(minX, maxX int) *SeriesIndex {
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	var out []Interval
	start := minX
	for b := ceilDecade(minX + 1); b < maxX; b += 10 {
		out = append(out, Interval{Start: start, End: b})
		start = b
	}
	out = append(out, Interval{Start: start, End: maxX, Closed: true})
	return &SeriesIndex{Intervals: out}
}

// NewSeriesIndexFor indexes the x-extent of points. It returns nil for no
// points.
func NewSeriesIndexFor(points []stack.Point) *SeriesIndex {
	lo, hi, ok := stack.XExtent(points)
	if !ok {
		return nil
	}
	return NewSeriesIndex(lo, hi)
}

// ceilDecade returns the smallest multiple of 10 not below x.
func ceilDecade(x int) int {
	r := x % 10
	switch {
	case r == 0:
		return x
	case r > 0:
		return x + 10 - r
	default:
		return x - r
	}
}

// Resolve returns the interval containing the data-space value x.
func (ix *SeriesIndex) Resolve(x float64) (Interval, bool) {
	if ix == nil {
		return Interval{}, false
	}
	for _, iv := range ix.Intervals {
		if iv.Contains(x) {
			return iv, true
		}
	}
	return Interval{}, false
}

// ResolvePixel inverts px through scale and resolves the result.
func (ix *SeriesIndex) ResolvePixel(px float64, scale XScale) (Interval, bool) {
	return ix.Resolve(scale.Invert(px))
}

// Summary totals each category's count over the years in iv.
func Summary(points []stack.Point, iv Interval) []stack.Total {
	return stack.Totals(points, iv.Start, iv.LastYear())
}

// XScale maps years linearly onto pixels.
type XScale struct {
	D0, D1 float64 // domain
	R0, R1 float64 // range
}

// NewXScale returns a scale from [minX, maxX] onto [left, right].
func NewXScale(minX, maxX int, left, right float64) XScale {
	return XScale{D0: float64(minX), D1: float64(maxX), R0: left, R1: right}
}

// Apply maps a year to a pixel. A single-year domain maps to the middle of
// the range.
func (s XScale) Apply(x float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (x-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Invert maps a pixel back to a year. A zero-width range maps to D0.
func (s XScale) Invert(px float64) float64 {
	if s.R1 == s.R0 {
		return s.D0
	}
	return s.D0 + (px-s.R0)/(s.R1-s.R0)*(s.D1-s.D0)
}
