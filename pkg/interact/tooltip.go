package interact

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/crashviz/pkg/render/stack"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

// Margin is the gap between the pointer and the tooltip.
const Margin = 10

// Size is a width and height in pixels.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PlaceTooltip returns the top-left corner of a tooltip of the given size.
//
// The default spot is up and to the right of the pointer. If that overflows
// the right edge of the viewport the tooltip moves to the left of the
// pointer; if it overflows the top edge it moves below the pointer.
func PlaceTooltip(pointer Point, size, viewport Size) Point {
	x := pointer.X + Margin
	y := pointer.Y - Margin - size.H
	if x+size.W > viewport.W {
		x = pointer.X - Margin - size.W
	}
	if y < 0 {
		y = pointer.Y + Margin
	}
	return Point{X: x, Y: y}
}

// Tooltip is placed tooltip content.
type Tooltip struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Lines []string `json:"lines"`
}

// Metrics estimates rendered text size for tooltip placement.
type Metrics struct {
	CharWidth  float64 `toml:"char_width"`
	LineHeight float64 `toml:"line_height"`
	Padding    float64 `toml:"padding"`
}

// DefaultMetrics matches a 12px sans-serif tooltip.
var DefaultMetrics = Metrics{CharWidth: 7, LineHeight: 16, Padding: 8}

// Measure estimates the box size of lines.
func (m Metrics) Measure(lines []string) Size {
	widest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > widest {
			widest = n
		}
	}
	return Size{
		W: float64(widest)*m.CharWidth + 2*m.Padding,
		H: float64(len(lines))*m.LineHeight + 2*m.Padding,
	}
}

// Place positions t for pointer within viewport, sizing it with m.
func (t Tooltip) Place(pointer Point, viewport Size, m Metrics) Tooltip {
	p := PlaceTooltip(pointer, m.Measure(t.Lines), viewport)
	t.X, t.Y = p.X, p.Y
	return t
}

// TreemapTooltip describes a treemap leaf. group is the name of the leaf's
// depth-1 ancestor, the cause in the aggregate view or the location in the
// detail view.
func TreemapTooltip(n *treemap.Node, group string) Tooltip {
	lines := make([]string, 0, 3)
	if group != "" && group != n.Name {
		lines = append(lines, group)
	}
	lines = append(lines,
		fmt.Sprintf("%s: %s", n.Name, plural(n.Value, "incident")),
		fmt.Sprintf("Fatalities: %d", n.Fatalities),
	)
	return Tooltip{Lines: lines}
}

// SeriesTooltip describes a decade interval. Categories without incidents in
// the interval are left out.
func SeriesTooltip(iv Interval, summary []stack.Total) Tooltip {
	lines := []string{iv.Label()}
	var total float64
	for _, t := range summary {
		if t.Count == 0 {
			continue
		}
		total += t.Count
		lines = append(lines, fmt.Sprintf("%s: %s", t.Category, formatCount(t.Count)))
	}
	lines = append(lines, "Total: "+plural(total, "incident"))
	return Tooltip{Lines: lines}
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(v float64, noun string) string {
	if v == 1 {
		return "1 " + noun
	}
	return formatCount(v) + " " + noun + "s"
}
