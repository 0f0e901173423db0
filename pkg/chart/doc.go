// Package chart provides the serialization format for computed charts.
//
// A [Chart] is the complete output of one recompute pass: the stacked
// series, the laid-out treemap with its group boxes, the color domain and
// the selection it was computed for. It is the payload of the API's
// /api/chart endpoint, the "json" artifact of the render pipeline, and the
// input of `crashviz render`, which draws SVGs from a saved chart.
//
// # Format
//
//	{
//	  "width": 960, "height": 600,
//	  "categories": ["Weather", "Mechanical"],
//	  "series": [{"year": 2000, "bands": [{"category": "Weather", "y0": 0, "y1": 1}]}],
//	  "y_max": 1, "x_min": 2000, "x_max": 2000,
//	  "treemap": {"name": "All causes", "value": 1, "x0": 0, "y0": 0, "x1": 960, "y1": 600,
//	              "children": [...]},
//	  "groups": [{"name": "Weather", "value": 1, "x0": 0, "y0": 0, "x1": 960, "y1": 600}],
//	  "color_domain": [0, 5],
//	  "selection": null
//	}
//
// Leaves carry "fatalities"; internal nodes omit it. When the selected cause
// has no location data, "treemap" is absent, "empty" is true and "message"
// says why.
package chart
