package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crashviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	formats string
	cause   string
	chart   string // previously rendered chart JSON to re-render
	width   float64
	height  float64
	padding float64
	style   string
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.csv]",
		Short: "Render the incident charts to JSON or SVG",
		Long: `Render computes the stacked series and the treemap for the aggregate view,
or for one cause with --cause, and writes them in the requested formats:

  json         the complete chart state
  svg-series   the stacked area chart of incidents per year
  svg-treemap  the treemap (default)

Without a file the source configured in crashviz.toml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg-treemap (default), svg-series, json (comma-separated)")
	cmd.Flags().StringVar(&opts.cause, "cause", "", "drill into one cause (treemap by location)")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "re-render a chart JSON file instead of loading records")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "chart width")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "chart height")
	cmd.Flags().Float64Var(&opts.padding, "padding", pipeline.DefaultPadding, "treemap padding")
	cmd.Flags().StringVar(&opts.style, "style", pipeline.DefaultStyle, "visual style: simple, interactive")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, ro *renderOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	opts := chartOptions(cfg)
	applyChartFlags(cmd, &opts, ro.width, ro.height, ro.padding)
	opts.Cause = ro.cause
	opts.Style = ro.style
	opts.Refresh = ro.refresh
	opts.Formats = parseFormats(ro.formats)
	opts.Logger = c.Logger
	if err := opts.Validate(); err != nil {
		return err
	}

	if ro.chart != "" {
		return c.rerender(ctx, ro, opts)
	}

	res, err := c.loadRecords(ctx, cfg, input)
	if err != nil {
		return err
	}
	if err := c.checkCause(res.Records, opts.Cause); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, res.Records, opts)
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, ro.output, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(len(paths), "file")))

	printSuccess("Rendered %s", opts.Selection())
	printStats(result.Stats.Records, len(res.Rejected), result.CacheInfo.ChartHit && result.CacheInfo.RenderHit)
	if result.Chart.Empty {
		printWarning("%s", result.Chart.Message)
	}
	for _, p := range paths {
		printFile(p)
	}
	if opts.Cause == "" && len(result.Chart.Categories) > 0 {
		printNewline()
		printNextStep("Drill into the largest cause", fmt.Sprintf("crashviz render --cause %q", result.Chart.Categories[0]))
	}
	return nil
}

// rerender renders a saved chart JSON without touching the records.
func (c *CLI) rerender(ctx context.Context, ro *renderOpts, opts pipeline.Options) error {
	data, err := os.ReadFile(ro.chart)
	if err != nil {
		return err
	}
	artifacts, err := pipeline.RenderFromChartData(data, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, ro.output, ro.chart)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("re-rendered chart", "path", ro.chart)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// applyChartFlags overrides configured chart settings with flags the user set.
func applyChartFlags(cmd *cobra.Command, opts *pipeline.Options, width, height, padding float64) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.Width = width
	}
	if flags.Changed("height") {
		opts.Height = height
	}
	if flags.Changed("padding") {
		opts.Padding = padding
	}
}

// =============================================================================
// Output Paths
// =============================================================================

// formatSuffix is appended to the base path for each format.
var formatSuffix = map[string]string{
	pipeline.FormatJSON:       ".json",
	pipeline.FormatSeriesSVG:  ".series.svg",
	pipeline.FormatTreemapSVG: ".treemap.svg",
}

// outputPaths maps each format to the file it is written to. A single
// format goes to output verbatim when it is given.
func outputPaths(formats []string, output, input string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + formatSuffix[f]
	}
	return paths
}

// basePath strips known suffixes from output, or derives a base from input.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "crashviz"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, suffix := range []string{".series.svg", ".treemap.svg", ".svg", ".json"} {
		if strings.HasSuffix(output, suffix) {
			return strings.TrimSuffix(output, suffix)
		}
	}
	return output
}

// writeArtifacts writes artifacts in format order and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := outputPaths(formats, output, input)
	written := make([]string, 0, len(formats))
	for _, f := range slices.Compact(slices.Clone(formats)) {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s output rendered", f)
		}
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
