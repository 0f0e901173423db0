package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/render/colorscale"
)

const (
	groupLabelSize = 11.0
	leafLabelSize  = 9.0
	minLabelWidth  = 36.0
	minLabelHeight = 14.0
)

// RenderTreemapSVG draws the treemap of c. Leaves are filled from the red
// ramp by fatalities; group boxes and names are drawn on top.
func RenderTreemapSVG(c *chart.Chart, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	openSVG(&buf, c.Width, c.Height, "treemap")

	if c.Treemap == nil || c.Empty {
		msg := c.Message
		if msg == "" {
			msg = "no data"
		}
		renderMessage(&buf, &r, c.Width, c.Height, msg)
		closeSVG(&buf, &r)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, `  <g class="treemap-root" data-name="%s" data-value="%g">`+"\n",
		escapeXML(c.Treemap.Name), c.Treemap.Value)
	domain := c.Domain()
	for _, leaf := range c.Treemap.Leaves() {
		renderLeaf(&buf, &r, c, leaf, domain)
	}
	for _, g := range c.Groups {
		renderGroup(&buf, &r, g)
	}
	buf.WriteString("  </g>\n")

	closeSVG(&buf, &r)
	return buf.Bytes()
}

func renderLeaf(buf *bytes.Buffer, r *svgRenderer, c *chart.Chart, n *chart.Node, d colorscale.Domain) {
	rect := n.Rect()
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	fatalities := 0
	if n.Fatalities != nil {
		fatalities = *n.Fatalities
	}
	group := c.GroupOf(rect.X0, rect.Y0)
	fill := colorscale.Reds(colorscale.For(float64(fatalities), d))

	fmt.Fprintf(buf, `    <rect class="leaf" data-name="%s" data-group="%s" data-value="%g" data-fatalities="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#fff" stroke-width="0.5"/>`+"\n",
		escapeXML(n.Name), escapeXML(group), n.Value, fatalities,
		rect.X0, rect.Y0, rect.Width(), rect.Height(), fill)

	if rect.Width() >= minLabelWidth && rect.Height() >= 2*minLabelHeight+groupLabelSize {
		fmt.Fprintf(buf, `    <text class="leaf-label" x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s" pointer-events="none">%s</text>`+"\n",
			rect.X0+3, rect.Y1-4, escapeXML(r.font), leafLabelSize, labelColor(colorscale.For(float64(fatalities), d)),
			escapeXML(truncate(n.Name, rect.Width(), leafLabelSize)))
	}
}

func renderGroup(buf *bytes.Buffer, r *svgRenderer, g chart.Group) {
	rect := g.Rect()
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	fmt.Fprintf(buf, `    <rect class="group" data-group="%s" data-value="%g" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#222" stroke-width="1.5" pointer-events="none"/>`+"\n",
		escapeXML(g.Name), g.Value, rect.X0, rect.Y0, rect.Width(), rect.Height())
	if rect.Width() >= minLabelWidth && rect.Height() >= minLabelHeight {
		fmt.Fprintf(buf, `    <text class="group-label" x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" font-weight="bold" fill="#111" dominant-baseline="hanging">%s</text>`+"\n",
			rect.X0+3, rect.Y0+3, escapeXML(r.font), groupLabelSize,
			escapeXML(truncate(g.Name, rect.Width(), groupLabelSize)))
	}
}

// labelColor picks a text color readable on the ramp color at t.
func labelColor(t float64) string {
	if t > 0.6 {
		return "#fff"
	}
	return "#111"
}

// truncate shortens s to fit width at the given font size, assuming an
// average glyph width of 0.6em.
func truncate(s string, width, size float64) string {
	maxChars := int((width - 6) / (size * 0.6))
	runes := []rune(s)
	if maxChars < 3 || len(runes) <= maxChars {
		if maxChars < 3 && len(runes) > 3 {
			return string(runes[:1]) + ".."
		}
		return s
	}
	return string(runes[:maxChars-2]) + ".."
}
