package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Styles accepted by the render pipeline.
const (
	StyleSimple      = "simple"
	StyleInteractive = "interactive"
)

const interactionCSS = `
    .leaf, .area { transition: opacity 0.15s ease; }
    .dim { opacity: 0.35; }
    .group-label { pointer-events: none; }
    .interval { fill: transparent; cursor: pointer; }
    .interval:hover { fill: rgba(0, 0, 0, 0.06); }`

const interactionJS = `
    function dim(attr, value) {
      document.querySelectorAll('[' + attr + ']').forEach(el =>
        el.classList.toggle('dim', value !== null && el.getAttribute(attr) !== value));
    }
    document.querySelectorAll('.leaf').forEach(el => {
      el.addEventListener('mouseenter', () => dim('data-group', el.dataset.group));
      el.addEventListener('mouseleave', () => dim('data-group', null));
    });
    document.querySelectorAll('.area').forEach(el => {
      el.addEventListener('mouseenter', () => dim('data-category', el.dataset.category));
      el.addEventListener('mouseleave', () => dim('data-category', null));
    });`

// SVGOption configures the SVG renderers.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	interaction bool
	legend      bool
	font        string
	palette     []string
}

func WithInteraction() SVGOption       { return func(r *svgRenderer) { r.interaction = true } }
func WithLegend() SVGOption            { return func(r *svgRenderer) { r.legend = true } }
func WithFont(family string) SVGOption { return func(r *svgRenderer) { r.font = family } }

// WithPalette sets the category colors of the series chart. Colors are
// reused cyclically when there are more categories than colors.
func WithPalette(colors ...string) SVGOption {
	return func(r *svgRenderer) { r.palette = colors }
}

// StyleOptions returns the options implied by a style name.
func StyleOptions(style string) []SVGOption {
	switch style {
	case StyleInteractive:
		return []SVGOption{WithInteraction(), WithLegend()}
	}
	return nil
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{font: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// categoryColor returns the color for the i-th of n categories. Without a
// palette, hues are spaced evenly around the HCL wheel.
func (r *svgRenderer) categoryColor(i, n int) string {
	if len(r.palette) > 0 {
		return r.palette[i%len(r.palette)]
	}
	h := 360 * float64(i) / float64(max(n, 1))
	return colorful.Hcl(h, 0.45, 0.65).Clamped().Hex()
}

func openSVG(buf *bytes.Buffer, w, h float64, class string) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" class="%s" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		class, w, h, w, h)
}

func closeSVG(buf *bytes.Buffer, r *svgRenderer) {
	if r.interaction {
		fmt.Fprintf(buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
}

func renderMessage(buf *bytes.Buffer, r *svgRenderer, w, h float64, msg string) {
	fmt.Fprintf(buf, `  <text class="message" x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="14" fill="#666">%s</text>`+"\n",
		w/2, h/2, escapeXML(r.font), escapeXML(msg))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
