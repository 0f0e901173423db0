// Package cli implements the crashviz command-line interface.
//
// # Commands
//
//   - render: write the chart as JSON, series SVG or treemap SVG
//   - series: print incidents per year and cause as a table
//   - treemap: print the laid-out treemap leaves as a table
//   - serve: run the HTTP API with Prometheus metrics
//   - explore: browse causes interactively in the terminal
//   - cache: clear or locate the render cache
//
// Every command reads crashviz.toml (see package config); flags override it.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through context.Context so helpers can report progress without
// holding a *CLI.
package cli
