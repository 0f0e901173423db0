package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/render/colorscale"
	"github.com/matzehuels/crashviz/pkg/render/stack"
)

// inspectOpts are the flags shared by the table commands.
type inspectOpts struct {
	cause   string
	width   float64
	height  float64
	padding float64
	noCache bool
	decades bool
}

// =============================================================================
// series
// =============================================================================

// seriesCommand prints the stacked series as a table.
func (c *CLI) seriesCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "series [file.csv]",
		Short: "Print incidents per year and cause",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.inspectChart(cmd, args, &opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seriesTable(ch, opts.decades))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.decades, "decades", false, "sum years into decade intervals")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	return cmd
}

// seriesTable renders one row per year, or per decade interval.
func seriesTable(c *chart.Chart, decades bool) string {
	headers := append([]string{"Years"}, c.Categories...)
	t := newTable(append(headers, "Total")...)

	if decades {
		if ix := interact.NewSeriesIndexFor(c.Series); ix != nil {
			for _, iv := range ix.Intervals {
				t.Row(totalsRow(iv.Label(), c.Categories, interact.Summary(c.Series, iv))...)
			}
		}
		return t.Render()
	}

	for _, p := range c.Series {
		t.Row(totalsRow(strconv.Itoa(p.Year), c.Categories, stack.Totals([]stack.Point{p}, p.Year, p.Year))...)
	}
	return t.Render()
}

func totalsRow(label string, categories []string, totals []stack.Total) []string {
	counts := make(map[string]float64, len(totals))
	var sum float64
	for _, tt := range totals {
		counts[tt.Category] = tt.Count
		sum += tt.Count
	}
	row := make([]string, 0, len(categories)+2)
	row = append(row, label)
	for _, cat := range categories {
		row = append(row, strconv.FormatFloat(counts[cat], 'f', -1, 64))
	}
	return append(row, strconv.FormatFloat(sum, 'f', -1, 64))
}

// =============================================================================
// treemap
// =============================================================================

// treemapCommand prints the treemap leaves as a table.
func (c *CLI) treemapCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "treemap [file.csv]",
		Short: "Print the treemap leaves with their rectangles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.inspectChart(cmd, args, &opts)
			if err != nil {
				return err
			}
			if ch.Empty {
				printWarning("%s", ch.Message)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), treemapTable(ch))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.cause, "cause", "", "drill into one cause (treemap by location)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "chart width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "chart height")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "treemap padding")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	return cmd
}

// treemapTable renders one row per leaf, grouped by depth-1 node. The
// fatalities column is tinted with the leaf's fill color.
func treemapTable(c *chart.Chart) string {
	t := newTable("Group", "Leaf", "Incidents", "Fatalities", "Rect")
	if c.Treemap == nil {
		return t.Render()
	}
	domain := c.Domain()
	for _, group := range c.Treemap.Children {
		for _, leaf := range group.Leaves() {
			fatalities := "-"
			if leaf.Fatalities != nil {
				f := float64(*leaf.Fatalities)
				fill := lipgloss.Color(colorscale.Reds(colorscale.For(f, domain)))
				fatalities = lipgloss.NewStyle().Foreground(fill).Render(strconv.Itoa(*leaf.Fatalities))
			}
			t.Row(group.Name, leaf.Name,
				strconv.FormatFloat(leaf.Value, 'f', -1, 64),
				fatalities,
				fmt.Sprintf("%.1f,%.1f %.1fx%.1f", leaf.X0, leaf.Y0, leaf.X1-leaf.X0, leaf.Y1-leaf.Y0))
		}
	}
	return t.Render()
}

// =============================================================================
// Shared
// =============================================================================

// inspectChart loads records and recomputes the chart for opts.
func (c *CLI) inspectChart(cmd *cobra.Command, args []string, fl *inspectOpts) (*chart.Chart, error) {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	input := ""
	if len(args) == 1 {
		input = args[0]
	}

	opts := chartOptions(cfg)
	applyChartFlags(cmd, &opts, fl.width, fl.height, fl.padding)
	opts.Cause = fl.cause
	opts.Logger = c.Logger
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res, err := c.loadRecords(ctx, cfg, input)
	if err != nil {
		return nil, err
	}
	if err := c.checkCause(res.Records, opts.Cause); err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, cfg, fl.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	ch, _, hit, err := runner.ChartWithCacheInfo(ctx, res.Records, opts)
	if err != nil {
		return nil, err
	}
	printStats(len(res.Records), len(res.Rejected), hit)
	return ch, nil
}
