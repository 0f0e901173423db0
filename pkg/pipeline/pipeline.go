// Package pipeline provides the recompute and render pipeline for crashviz.
//
// This package runs one chart pass end to end so that the CLI and the HTTP
// server share the same defaults, validation and caching:
//
//  1. Recompute: aggregate the records for a selection and lay out the
//     stacked series and the treemap
//  2. Render: turn the resulting chart into artifacts (JSON, series SVG,
//     treemap SVG)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, recs, pipeline.Options{
//	    Cause:   "Weather",
//	    Formats: []string{pipeline.FormatTreemapSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatTreemapSVG]
//
// Run the recompute stage alone:
//
//	out, err := pipeline.Recompute(recs, interact.Detail("Weather"), opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crashviz/pkg/aggregate"
	"github.com/matzehuels/crashviz/pkg/cache"
	"github.com/matzehuels/crashviz/pkg/chart"
	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/sink"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

// =============================================================================
// Default Values - Shared by CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = 960.0

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = 600.0

	// DefaultPadding is the default treemap padding in pixels.
	DefaultPadding = 2.0

	// DefaultStyle is the default visual style.
	DefaultStyle = sink.StyleSimple
)

// Format constants for output formats.
const (
	FormatJSON       = "json"
	FormatSeriesSVG  = "svg-series"
	FormatTreemapSVG = "svg-treemap"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:       true,
	FormatSeriesSVG:  true,
	FormatTreemapSVG: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	sink.StyleSimple:      true,
	sink.StyleInteractive: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Recompute options
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Padding float64 `json:"padding"`
	Cause   string  `json:"cause,omitempty"` // empty selects the aggregate view
	Refresh bool    `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chart is the computed chart state.
	Chart *chart.Chart

	// ChartHash is the content hash of the serialized chart.
	ChartHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records       int
	Categories    int
	Leaves        int
	RecomputeTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ChartHit  bool // Whether the chart came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid style: %q (must be one of: simple, interactive)", style)
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero sizes, formats, style and logger. Padding is kept
// as given since zero is a valid padding.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks geometry, formats and style. It does not apply defaults.
func (o *Options) Validate() error {
	if err := treemap.ValidateBounds(o.Bounds(), o.Padding); err != nil {
		return err
	}
	if o.Cause != "" {
		if err := apperrors.ValidateCategoryName(o.Cause); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Selection returns the selection named by Cause.
func (o *Options) Selection() interact.Selection {
	if o.Cause == "" {
		return interact.Aggregate()
	}
	return interact.Detail(o.Cause)
}

// Bounds returns the treemap bounds.
func (o *Options) Bounds() treemap.Rect {
	return treemap.Rect{X1: o.Width, Y1: o.Height}
}

// ChartKeyOpts returns cache key options for the recompute stage.
func (o *Options) ChartKeyOpts() cache.ChartKeyOpts {
	return cache.ChartKeyOpts{
		Cause:   o.Cause,
		Width:   o.Width,
		Height:  o.Height,
		Padding: o.Padding,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Style: o.Style}
}

// =============================================================================
// Recompute
// =============================================================================

// Recompute runs one aggregation pass for sel. The selection overrides
// opts.Cause.
func Recompute(recs []records.Record, sel interact.Selection, opts Options) (aggregate.Outputs, error) {
	opts.SetDefaults()
	if err := treemap.ValidateBounds(opts.Bounds(), opts.Padding); err != nil {
		return aggregate.Outputs{}, err
	}
	return aggregate.New(nil).Recompute(aggregate.Inputs{
		Records:   recs,
		Selection: sel,
		Bounds:    opts.Bounds(),
		Padding:   opts.Padding,
	})
}
