package sink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/render/stack"
)

// Series chart margins in pixels.
const (
	seriesMarginTop    = 12.0
	seriesMarginRight  = 12.0
	seriesMarginBottom = 28.0
	seriesMarginLeft   = 40.0

	yTicks = 4
)

// Plot is the drawing area of the series chart inside its frame.
type Plot struct {
	Left, Top, Right, Bottom float64
}

// SeriesPlot returns the plot area of a series chart of size w x h.
func SeriesPlot(w, h float64) Plot {
	return Plot{
		Left:   seriesMarginLeft,
		Top:    seriesMarginTop,
		Right:  max(seriesMarginLeft, w-seriesMarginRight),
		Bottom: max(seriesMarginTop, h-seriesMarginBottom),
	}
}

// XScale returns the year-to-pixel scale of c drawn in p.
func (p Plot) XScale(c *chart.Chart) interact.XScale {
	return interact.NewXScale(c.XMin, c.XMax, p.Left, p.Right)
}

// Y maps a stacked count to a pixel.
func (p Plot) Y(v, yMax float64) float64 {
	if yMax <= 0 {
		return p.Bottom
	}
	return p.Bottom - v/yMax*(p.Bottom-p.Top)
}

// RenderSeriesSVG draws the stacked area chart of c.
func RenderSeriesSVG(c *chart.Chart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	openSVG(&buf, c.Width, c.Height, "series")

	if len(c.Series) == 0 {
		renderMessage(&buf, &r, c.Width, c.Height, "no incidents")
		closeSVG(&buf, &r)
		return buf.Bytes()
	}

	p := SeriesPlot(c.Width, c.Height)
	xs := p.XScale(c)

	for i, cat := range c.Categories {
		d := areaPath(c.Series, cat, p, xs, c.YMax)
		if d == "" {
			continue
		}
		fmt.Fprintf(&buf, `  <path class="area" data-category="%s" d="%s" fill="%s" stroke="none"/>`+"\n",
			escapeXML(cat), d, r.categoryColor(i, len(c.Categories)))
	}

	renderAxes(&buf, &r, c, p, xs)
	renderIntervals(&buf, c, p, xs)
	if r.legend {
		renderLegend(&buf, &r, c.Categories, p)
	}

	closeSVG(&buf, &r)
	return buf.Bytes()
}

// areaPath traces the top edge of cat's band left to right and its bottom
// edge back. Points missing the band contribute a zero-height sliver at the
// stack top.
func areaPath(points []stack.Point, cat string, p Plot, xs interact.XScale, yMax float64) string {
	type edge struct{ x, y0, y1 float64 }
	edges := make([]edge, 0, len(points))
	present := false
	for _, pt := range points {
		b, ok := pt.Band(cat)
		if !ok {
			b = stack.Band{Y0: pt.Top(), Y1: pt.Top()}
		} else {
			present = true
		}
		edges = append(edges, edge{xs.Apply(float64(pt.Year)), p.Y(b.Y0, yMax), p.Y(b.Y1, yMax)})
	}
	if !present {
		return ""
	}

	var sb strings.Builder
	for i, e := range edges {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(coord(e.x, e.y1))
	}
	for i := len(edges) - 1; i >= 0; i-- {
		sb.WriteString(" L")
		sb.WriteString(coord(edges[i].x, edges[i].y0))
	}
	sb.WriteString(" Z")
	return sb.String()
}

func coord(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64) + "," + strconv.FormatFloat(y, 'f', 1, 64)
}

func renderAxes(buf *bytes.Buffer, r *svgRenderer, c *chart.Chart, p Plot, xs interact.XScale) {
	font := escapeXML(r.font)
	fmt.Fprintf(buf, `  <g class="axis" font-family="%s" font-size="10" fill="#444">`+"\n", font)
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444"/>`+"\n", p.Left, p.Bottom, p.Right, p.Bottom)
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444"/>`+"\n", p.Left, p.Top, p.Left, p.Bottom)

	for _, year := range xTicks(c.XMin, c.XMax) {
		x := xs.Apply(float64(year))
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle">%d</text>`+"\n", x, p.Bottom+16, year)
	}
	for i := 0; i <= yTicks; i++ {
		v := c.YMax * float64(i) / yTicks
		y := p.Y(v, c.YMax)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			p.Left-6, y, strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteString("  </g>\n")
}

// xTicks returns the ends of the extent and every decade inside it.
func xTicks(lo, hi int) []int {
	ticks := []int{lo}
	for _, iv := range interact.NewSeriesIndex(lo, hi).Intervals[1:] {
		ticks = append(ticks, iv.Start)
	}
	if hi != lo {
		ticks = append(ticks, hi)
	}
	return ticks
}

// renderIntervals draws one transparent hit zone per decade interval.
func renderIntervals(buf *bytes.Buffer, c *chart.Chart, p Plot, xs interact.XScale) {
	ix := interact.NewSeriesIndex(c.XMin, c.XMax)
	for _, iv := range ix.Intervals {
		x0 := xs.Apply(float64(iv.Start))
		x1 := xs.Apply(float64(iv.End))
		if x1 <= x0 {
			x0, x1 = p.Left, p.Right
		}
		fmt.Fprintf(buf, `  <rect class="interval" data-interval="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			iv.Label(), x0, p.Top, x1-x0, p.Bottom-p.Top)
	}
}

func renderLegend(buf *bytes.Buffer, r *svgRenderer, cats []string, p Plot) {
	const row = 14.0
	fmt.Fprintf(buf, `  <g class="legend" font-family="%s" font-size="10" fill="#222">`+"\n", escapeXML(r.font))
	for i, cat := range cats {
		y := p.Top + 4 + float64(i)*row
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="10" height="10" fill="%s"/>`+"\n",
			p.Left+8, y, r.categoryColor(i, len(cats)))
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" dominant-baseline="hanging">%s</text>`+"\n",
			p.Left+22, y, escapeXML(cat))
	}
	buf.WriteString("  </g>\n")
}
