// Package api serves an interactive crashviz chart over HTTP.
//
// The server owns one selection for the records it was started with. Hosts
// fetch the chart state, report clicks and hovers, and pull rendered SVGs:
//
//	GET    /api/chart               current chart state (JSON)
//	GET    /api/categories          causes with incident counts
//	POST   /api/selection           {"cause": "..."} selects, null resets
//	DELETE /api/selection           back to the aggregate view
//	POST   /api/click               pointer click routed through the controller
//	GET    /api/hover/treemap?x=&y= tooltip for the treemap leaf at (x, y)
//	GET    /api/hover/series?x=     tooltip for the decade under pixel x
//	GET    /api/render/{kind}.svg   series or treemap SVG
//	GET    /metrics                 Prometheus metrics
//	GET    /healthz                 liveness
//
// Errors are JSON bodies of the form {"code": ..., "message": ...} with
// the status derived from the error code.
package api
