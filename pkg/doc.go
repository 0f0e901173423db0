// Package pkg provides the core libraries for crashviz incident visualization.
//
// # Overview
//
// Crashviz turns a table of aviation incidents into two linked charts: a
// stacked area chart of incidents per year and cause, and a treemap of
// incidents by cause and survival. Selecting a cause drills the treemap
// down to that cause's locations. The pkg directory is organized into four
// main areas:
//
//  1. [records] and [source] - Cleaning and loading incident rows
//  2. [aggregate], [hierarchy] and [render] - Aggregation and geometry
//  3. [interact] - Selection state, hit testing and tooltips
//  4. [pipeline] - Orchestration (recompute → render) with caching
//
// # Architecture
//
// The typical data flow through crashviz:
//
//	CSV file / MongoDB collection
//	         ↓
//	    [source] (parse and clean rows into records)
//	         ↓
//	    [aggregate] (series + hierarchy for the selection)
//	         ↓
//	    [render/stack], [render/treemap], [render/colorscale] (geometry)
//	         ↓
//	    [chart] (wire format) → [render/sink] (SVG, JSON)
//
// # Quick Start
//
//	res, _ := csvsource.New("crashes.csv").Load(ctx)
//	out, _ := pipeline.Recompute(res.Records, interact.Detail("Weather"), pipeline.Options{})
//	c := chart.FromOutputs(out, pipeline.DefaultWidth, pipeline.DefaultHeight)
//	svg := sink.RenderTreemapSVG(c, sink.WithInteraction())
//
// # Main Packages
//
// [records] - The cleaned Record type, row parsing and category order.
//
// [source] - Record loading with csvsource and mongosource adapters.
//
// [aggregate] - One recompute pass: stacked series for all records and the
// treemap for the current selection.
//
// [interact] - The selection controller, decade and treemap hit testing, and
// tooltip content and placement.
//
// [pipeline] - The recompute and render pipeline shared by CLI and server.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches for charts and rendered artifacts.
//
// [config] - TOML, dotenv and environment configuration.
//
// [observability] - Hooks for logging and Prometheus metrics.
//
// [errors] - Structured error codes with HTTP status mapping.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/render/treemap/...     # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [records]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/records
// [source]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/source
// [aggregate]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/aggregate
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/hierarchy
// [render]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/render
// [interact]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/interact
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/errors
//
// [render/stack]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/render/stack
// [render/treemap]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/render/treemap
// [render/colorscale]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/render/colorscale
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/render/sink
// [chart]: https://pkg.go.dev/github.com/matzehuels/crashviz/pkg/chart
package pkg
