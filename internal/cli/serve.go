package cli

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crashviz/internal/api"
	"github.com/matzehuels/crashviz/pkg/config"
	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/observability/prom"
	"github.com/matzehuels/crashviz/pkg/pipeline"
)

type serveOpts struct {
	addr    string
	style   string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file.csv]",
		Short: "Serve the charts and the selection API over HTTP",
		Long: `Serve loads the incident records once and exposes the chart state, the
selection controller, hover lookups and rendered SVGs under /api.
Prometheus metrics are served at /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.style, "style", pipeline.DefaultStyle, "default SVG style: simple, interactive")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, input string, so *serveOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := pipeline.ValidateStyle(so.style); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observability.Install(observability.Multi{
		observability.NewLogHooks(c.Logger),
		prom.New(reg),
	})
	defer observability.Reset()

	res, err := c.loadRecords(ctx, cfg, input)
	if err != nil {
		return err
	}
	printStats(len(res.Records), len(res.Rejected), false)

	runner, err := c.newRunner(ctx, cfg, so.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	addr := cfg.Server.Addr
	if so.addr != "" {
		addr = so.addr
	}
	srv := api.New(res.Records, runner, api.Options{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Width:        cfg.Chart.Width,
		Height:       cfg.Chart.Height,
		Padding:      cfg.Chart.Padding,
		Style:        so.style,
		Tooltip:      cfg.Tooltip,
		Gatherer:     reg,
		Logger:       c.Logger,
	})

	printInfo("Serving on %s", StyleLink.Render(fmt.Sprintf("http://%s/api/chart", addr)))
	printKeyValue("Metrics", fmt.Sprintf("http://%s/metrics", addr))
	backend := cfg.Cache.Backend
	if so.noCache {
		backend = config.CacheNone
	}
	printKeyValue("Cache", backend)
	printKeyValue("Style", so.style)
	started := time.Now()
	err = srv.ListenAndServe(ctx)
	printDetail("Uptime: %s", time.Since(started).Round(time.Second))
	return err
}
