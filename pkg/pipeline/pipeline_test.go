package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crashviz/pkg/cache"
	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/records"
)

var sample = []records.Record{
	{Year: 2000, Cause: "A", Location: "X", Fatalities: 5},
	{Year: 2000, Cause: "B", Location: "Y", Fatalities: 0, HasSurvivors: true},
	{Year: 2004, Cause: "A", Location: "Z", Fatalities: 9},
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg-series", false},
		{"svg-treemap", false},
		{"svg", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "svg-series"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "png"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	for style, wantErr := range map[string]bool{"simple": false, "interactive": false, "handdrawn": true, "": true} {
		if err := ValidateStyle(style); (err != nil) != wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", style, err, wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %vx%v", o.Width, o.Height)
	}
	if o.Padding != 0 {
		t.Errorf("Padding = %v, explicit zero must be kept", o.Padding)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Style != DefaultStyle || o.Logger == nil {
		t.Errorf("Style = %q, Logger = %v", o.Style, o.Logger)
	}
	if o.Selection().IsDetail() {
		t.Error("empty cause should select the aggregate view")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"negative width", Options{Width: -1}, apperrors.ErrCodeInvalidGeometry},
		{"negative padding", Options{Padding: -2}, apperrors.ErrCodeInvalidGeometry},
		{"control cause", Options{Cause: "a\x00b"}, apperrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"pdf"}}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	out, err := Recompute(sample, interact.Detail("A"), Options{Width: 300, Height: 200, Padding: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Hierarchy.Name != "A" || out.Hierarchy.Value != 2 {
		t.Errorf("Hierarchy = %s/%v", out.Hierarchy.Name, out.Hierarchy.Value)
	}
	if out.XMin != 2000 || out.XMax != 2004 {
		t.Errorf("extent = %d-%d", out.XMin, out.XMax)
	}

	if _, err := Recompute(sample, interact.Aggregate(), Options{Width: 10, Height: -5}); !apperrors.Is(err, apperrors.ErrCodeInvalidGeometry) {
		t.Errorf("err = %v, want geometry fault", err)
	}
}

// countingCache records gets and sets over an in-memory map.
type countingCache struct {
	data       map[string][]byte
	gets, sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: map[string][]byte{}}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = data
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	opts := Options{Width: 400, Height: 300, Padding: 2, Formats: []string{FormatJSON, FormatSeriesSVG, FormatTreemapSVG}}

	res, err := r.Execute(context.Background(), sample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ChartHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("artifacts = %d", len(res.Artifacts))
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatTreemapSVG]), "<svg") {
		t.Error("treemap artifact is not SVG")
	}
	if res.Stats.Records != 3 || res.Stats.Categories != 2 || res.Stats.Leaves != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if c.sets != 4 {
		t.Errorf("sets = %d, want chart plus three artifacts", c.sets)
	}

	again, err := r.Execute(context.Background(), sample, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ChartHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if again.ChartHash != res.ChartHash {
		t.Error("chart hash changed between runs")
	}
	if !bytes.Equal(again.Artifacts[FormatSeriesSVG], res.Artifacts[FormatSeriesSVG]) {
		t.Error("cached artifact differs")
	}
}

func TestRunnerRefresh(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	ctx := context.Background()

	if _, err := r.Execute(ctx, sample, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, sample, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ChartHit || res.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", res.CacheInfo)
	}
}

func TestRunnerSelectionChangesKey(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	ctx := context.Background()

	agg, err := r.Execute(ctx, sample, Options{})
	if err != nil {
		t.Fatal(err)
	}
	detail, err := r.Execute(ctx, sample, Options{Cause: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if detail.CacheInfo.ChartHit {
		t.Error("detail view must not reuse the aggregate chart")
	}
	if agg.ChartHash == detail.ChartHash {
		t.Error("views should hash differently")
	}
	if detail.Chart.Cause() != "A" {
		t.Errorf("Cause() = %q", detail.Chart.Cause())
	}
}

func TestRunnerEmptyDetail(t *testing.T) {
	var logs bytes.Buffer
	r := NewRunner(nil, nil, log.NewWithOptions(&logs, log.Options{}))
	res, err := r.Execute(context.Background(), sample, Options{Cause: "Nope", Formats: []string{FormatTreemapSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Chart.Empty {
		t.Error("unknown cause should produce an empty treemap")
	}
	if !strings.Contains(string(res.Artifacts[FormatTreemapSVG]), "no location data available for Nope") {
		t.Error("empty message missing from SVG")
	}
	if !strings.Contains(logs.String(), "no location data available for Nope") {
		t.Errorf("logs = %q", logs.String())
	}
}

type pipelineCounter struct {
	observability.NoopPipelineHooks
	recomputes, renders int
}

func (p *pipelineCounter) OnRecomputeComplete(context.Context, string, time.Duration, error) {
	p.recomputes++
}

func (p *pipelineCounter) OnRenderComplete(context.Context, string, int, time.Duration, error) {
	p.renders++
}

func TestRunnerHooks(t *testing.T) {
	hooks := &pipelineCounter{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	_, err := r.Execute(context.Background(), sample, Options{Formats: []string{FormatJSON, FormatSeriesSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if hooks.recomputes != 1 || hooks.renders != 2 {
		t.Errorf("recomputes = %d, renders = %d", hooks.recomputes, hooks.renders)
	}
}

func TestRenderFromChartData(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	res, err := r.Execute(context.Background(), sample, Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := RenderFromChartData(res.Artifacts[FormatJSON], Options{Formats: []string{FormatSeriesSVG}, Style: "interactive"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out[FormatSeriesSVG]), "<script") {
		t.Error("interactive style should embed the script")
	}
	if _, err := RenderFromChartData([]byte("{"), Options{}); err == nil {
		t.Error("expected parse error")
	}
}
