// Package render groups the chart geometry and output packages.
//
// # Overview
//
// Rendering is split by concern so that the geometry can be tested without
// producing any markup:
//
//   - [stack]: stacked series bands per year and category
//   - [treemap]: squarified treemap layout with padding
//   - [colorscale]: sequential red scale for leaf fatalities
//   - [sink]: SVG and JSON output for a computed chart
//
// # Series
//
//	points := stack.Stack(counts, categories)
//	yMax := stack.MaxY(points)
//
// # Treemap
//
//	root, err := treemap.Layout(h, treemap.Rect{X1: 960, Y1: 600}, 2)
//	domain := colorscale.BuildDomain(root.Leaves())
//	fill := colorscale.Reds(colorscale.For(float64(leaf.Fatalities), domain))
//
// [stack]: github.com/matzehuels/crashviz/pkg/render/stack
// [treemap]: github.com/matzehuels/crashviz/pkg/render/treemap
// [colorscale]: github.com/matzehuels/crashviz/pkg/render/colorscale
// [sink]: github.com/matzehuels/crashviz/pkg/render/sink
package render
