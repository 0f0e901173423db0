package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crashviz/pkg/buildinfo"
	"github.com/matzehuels/crashviz/pkg/cache"
	"github.com/matzehuels/crashviz/pkg/config"
	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/pipeline"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/source"
	"github.com/matzehuels/crashviz/pkg/source/csvsource"
	"github.com/matzehuels/crashviz/pkg/source/mongosource"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFiles   []string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "crashviz",
		Short: "Crashviz charts aviation incidents by cause, location and outcome",
		Long: `Crashviz turns a table of aviation incidents into a stacked area chart of
incidents per year and cause, and a treemap of incidents by cause and
survival (or, for a selected cause, by location).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $CRASHVIZ_CONFIG or ./crashviz.toml)")
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", nil, "dotenv files to load (default ./.env)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.seriesCommand())
	root.AddCommand(c.treemapCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath, c.envFiles...)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "source", cfg.Source.Kind, "cache", cfg.Cache.Backend)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. Keys
// are scoped to the build version so a release never reads charts written
// by another.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.DialRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(fc), nil
}

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/crashviz/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Records
// =============================================================================

// openSource builds the configured record source. A non-empty path
// overrides the configured CSV file. The returned close function releases
// any connection.
func openSource(ctx context.Context, cfg *config.Config, path string) (source.Source, func(), error) {
	kind := cfg.Source.Kind
	if path != "" {
		kind = config.SourceCSV
	} else {
		path = cfg.Source.Path
	}

	switch kind {
	case config.SourceMongo:
		ms, err := mongosource.Connect(ctx, cfg.Source.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return ms, func() { _ = ms.Close(context.Background()) }, nil
	default:
		if path == "" {
			return nil, nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"no incident data: pass a CSV file or set source.path")
		}
		if err := apperrors.ValidateSourcePath(path); err != nil {
			return nil, nil, err
		}
		return csvsource.New(path, csvsource.WithComma(cfg.Source.CommaRune())), func() {}, nil
	}
}

// loadRecords reads the incident records, showing a spinner while loading.
func (c *CLI) loadRecords(ctx context.Context, cfg *config.Config, path string) (*source.Result, error) {
	src, closeFn, err := openSource(ctx, cfg, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	spinner := newSpinnerWithContext(ctx, "Loading "+src.Name()+"...")
	spinner.Start()
	res, err := source.Load(ctx, src)
	if err != nil {
		spinner.StopWithError("Could not load " + src.Name())
		return nil, err
	}
	spinner.Stop()
	if len(res.Rejected) > 0 {
		c.Logger.Warn("skipped malformed rows", "source", src.Name(), "count", len(res.Rejected))
		for _, rej := range res.Rejected {
			c.Logger.Debug("rejected row", "line", rej.Line, "reason", rej.Reason)
		}
	}
	return res, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// chartOptions builds pipeline options from the configured chart settings.
func chartOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Width:   cfg.Chart.Width,
		Height:  cfg.Chart.Height,
		Padding: cfg.Chart.Padding,
		Style:   pipeline.DefaultStyle,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatTreemapSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// checkCause validates a requested cause and warns when the data has no
// incident with it; the chart then shows the empty treemap message.
func (c *CLI) checkCause(recs []records.Record, cause string) error {
	if cause == "" {
		return nil
	}
	if err := apperrors.ValidateCategoryName(cause); err != nil {
		return err
	}
	for _, r := range recs {
		if r.Cause == cause {
			return nil
		}
	}
	c.Logger.Warn("cause does not occur in the data", "cause", cause)
	return nil
}
