package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/interact"
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore [file.csv]",
		Short: "Browse causes and their treemaps in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}

			res, err := c.loadRecords(ctx, cfg, input)
			if err != nil {
				return err
			}
			if len(res.Records) == 0 {
				printWarning("No incidents to explore")
				return nil
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			base := chartOptions(cfg)
			base.Logger = c.Logger
			recompute := func(sel interact.Selection) (*chart.Chart, error) {
				opts := base
				opts.Cause, _ = sel.Cause()
				ch, _, _, err := runner.ChartWithCacheInfo(ctx, res.Records, opts)
				return ch, err
			}

			// Log lines would tear the alternate screen.
			level := c.Logger.GetLevel()
			c.SetLogLevel(LogError)
			defer c.SetLogLevel(level)

			p := tea.NewProgram(NewExploreModel(res.Records, recompute), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}
