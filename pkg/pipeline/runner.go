package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crashviz/pkg/cache"
	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete recompute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, recs []records.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.Records = len(recs)

	// Stage 1: Recompute
	start := time.Now()
	c, data, hit, err := r.ChartWithCacheInfo(ctx, recs, opts)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	result.Chart = c
	result.ChartHash = cache.Hash(data)
	result.Stats.RecomputeTime = time.Since(start)
	result.Stats.Categories = len(c.Categories)
	if c.Treemap != nil {
		result.Stats.Leaves = len(c.Treemap.Leaves())
	}
	result.CacheInfo.ChartHit = hit

	r.Logger.Info("computed chart",
		"selection", opts.Selection(),
		"categories", result.Stats.Categories,
		"leaves", result.Stats.Leaves,
		"cached", hit,
		"duration", result.Stats.RecomputeTime)
	if c.Empty {
		r.Logger.Warn(c.Message)
	}

	// Stage 2: Render
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, c, result.ChartHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ChartWithCacheInfo recomputes the chart for opts, or loads it from the
// cache. It returns the chart, its serialized form and whether it was a
// cache hit.
func (r *Runner) ChartWithCacheInfo(ctx context.Context, recs []records.Record, opts Options) (*chart.Chart, []byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}

	recsHash, err := cache.HashJSON(recs)
	if err != nil {
		return nil, nil, false, fmt.Errorf("records cache key: %w", err)
	}
	cacheKey := r.Keyer.ChartKey(recsHash, opts.ChartKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if c, err := chart.Unmarshal(data); err == nil {
				return c, data, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", cacheKey, "err", err)
		}
	}

	c, err := r.Recompute(ctx, recs, opts)
	if err != nil {
		return nil, nil, false, err
	}
	data, err := chart.Marshal(c)
	if err != nil {
		return nil, nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLChart); err != nil {
		opts.Logger.Debug("cache write failed", "key", cacheKey, "err", err)
	}
	return c, data, false, nil
}

// Recompute runs the aggregation pass for opts without caching and reports
// it to the pipeline hooks.
func (r *Runner) Recompute(ctx context.Context, recs []records.Record, opts Options) (*chart.Chart, error) {
	opts.SetDefaults()
	sel := opts.Selection()
	hooks := observability.Pipeline()

	hooks.OnRecomputeStart(ctx, sel.String(), len(recs))
	start := time.Now()
	out, err := Recompute(recs, sel, opts)
	hooks.OnRecomputeComplete(ctx, sel.String(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return chart.FromOutputs(out, opts.Width, opts.Height), nil
}

// RenderWithCacheInfo renders c in every requested format, serving from the
// cache when all formats are present. chartHash identifies c.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *chart.Chart, chartHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	svgOpts := sink.StyleOptions(opts.Style)
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		data, err := RenderFormat(c, format, svgOpts...)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data

		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "key", key, "err", err)
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
