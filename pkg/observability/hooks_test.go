package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	a := NoopAggregationHooks{}
	a.OnRecordRejected("incidents.csv", 3, "missing year")
	a.OnDetailNotFound("Weather")

	p := NoopPipelineHooks{}
	p.OnLoadComplete(ctx, "incidents.csv", 10, 1, time.Second, nil)
	p.OnRecomputeStart(ctx, "Weather", 10)
	p.OnRecomputeComplete(ctx, "Weather", time.Second, nil)
	p.OnRenderComplete(ctx, "svg", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "chart")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnResponse(ctx, "GET", "/api/chart", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Aggregation().(NoopAggregationHooks); !ok {
		t.Error("Aggregation() should return NoopAggregationHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customAgg := &testAggregationHooks{}
	SetAggregationHooks(customAgg)
	if Aggregation() != customAgg {
		t.Error("SetAggregationHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Aggregation().(NoopAggregationHooks); !ok {
		t.Error("Reset() should restore NoopAggregationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestMultiFansOut(t *testing.T) {
	a, b := &countingHooks{}, &countingHooks{}
	m := Multi{a, b}

	m.OnDetailNotFound("Weather")
	m.OnCacheHit(context.Background(), "chart")
	m.OnResponse(context.Background(), "GET", "/healthz", 200, 0)

	for i, h := range []*countingHooks{a, b} {
		if h.calls != 3 {
			t.Errorf("member %d saw %d events, want 3", i, h.calls)
		}
	}
}

func TestInstall(t *testing.T) {
	defer Reset()

	h := &countingHooks{}
	Install(h)
	Aggregation().OnDetailNotFound("x")
	Pipeline().OnRecomputeStart(context.Background(), "", 0)
	Cache().OnCacheMiss(context.Background(), "chart")
	HTTP().OnResponse(context.Background(), "GET", "/", 200, 0)

	if h.calls != 4 {
		t.Errorf("calls = %d, want 4", h.calls)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	h.OnDetailNotFound("Weather")
	h.OnRecordRejected("incidents.csv", 7, "missing year")
	h.OnRecomputeComplete(context.Background(), "Weather", time.Millisecond, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"Weather", "line=7", "recompute failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNewLogHooksNilLogger(t *testing.T) {
	if h := NewLogHooks(nil); h.Logger == nil {
		t.Error("NewLogHooks(nil) should fall back to the default logger")
	}
}

// Test implementations
type testAggregationHooks struct{ NoopAggregationHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

type countingHooks struct {
	NoopAggregationHooks
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
	calls int
}

func (c *countingHooks) OnDetailNotFound(string)                       { c.calls++ }
func (c *countingHooks) OnRecomputeStart(context.Context, string, int) { c.calls++ }
func (c *countingHooks) OnCacheHit(context.Context, string)            { c.calls++ }
func (c *countingHooks) OnCacheMiss(context.Context, string)           { c.calls++ }
func (c *countingHooks) OnResponse(context.Context, string, string, int, time.Duration) {
	c.calls++
}
