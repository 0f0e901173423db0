// Package sink renders a computed [chart.Chart] into output formats.
//
// # Overview
//
// A "sink" turns chart state into bytes. This package provides:
//
//   - [RenderSeriesSVG]: the stacked area chart of incidents per year
//   - [RenderTreemapSVG]: the treemap of the current selection
//   - [RenderJSON]: the chart wire format for a host page
//
// # SVG Output
//
// Both SVG renderers draw plain geometry from the chart; they never
// recompute anything. Elements carry data attributes (data-category,
// data-name, data-group, data-interval) so a host script can wire hover
// and click handling back to the interaction API.
//
//	svg := sink.RenderTreemapSVG(c,
//	    sink.WithInteraction(),
//	    sink.WithFont("Helvetica"),
//	)
//
// # SVG Options
//
//   - [WithInteraction]: embed hover highlighting CSS and script
//   - [WithLegend]: draw a category legend on the series chart
//   - [WithFont]: label font family
//   - [WithPalette]: override the category colors of the series chart
//
// Leaf fills come from [colorscale.Reds] over the chart's color domain.
// Group borders are drawn above the leaves together with the group name.
//
// [chart.Chart]: github.com/matzehuels/crashviz/pkg/chart.Chart
// [colorscale.Reds]: github.com/matzehuels/crashviz/pkg/render/colorscale.Reds
package sink
