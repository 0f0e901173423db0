// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends to the core transforms.
// Consumers register hooks at startup to receive events about record
// cleaning, drill-down lookups, recomputation, cache operations and API
// calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Two implementations ship with crashviz: [LogHooks] writes structured log
// lines through charmbracelet/log, and the prom subpackage records
// Prometheus metrics. [Multi] fans events out to several hook sets.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    hooks := observability.NewLogHooks(logger)
//	    observability.SetAggregationHooks(hooks)
//	    observability.SetPipelineHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Aggregation().OnDetailNotFound(cause)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Aggregation Hooks
// =============================================================================

// AggregationHooks receives events from record cleaning and aggregation.
// The aggregation core is synchronous and context-free, so these hooks take
// no context.
type AggregationHooks interface {
	// OnRecordRejected records a source row dropped by cleaning.
	OnRecordRejected(source string, line int, reason string)

	// OnDetailNotFound records a drill-down request for a cause without data.
	OnDetailNotFound(cause string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the recompute/render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadComplete(ctx context.Context, source string, records, rejected int, duration time.Duration, err error)

	// Recompute events
	OnRecomputeStart(ctx context.Context, selection string, records int)
	OnRecomputeComplete(ctx context.Context, selection string, duration time.Duration, err error)

	// Render events
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAggregationHooks is a no-op implementation of AggregationHooks.
type NoopAggregationHooks struct{}

func (NoopAggregationHooks) OnRecordRejected(string, int, string) {}
func (NoopAggregationHooks) OnDetailNotFound(string)              {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRecomputeStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnRecomputeComplete(context.Context, string, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	aggregationHooks AggregationHooks = NoopAggregationHooks{}
	pipelineHooks    PipelineHooks    = NoopPipelineHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetAggregationHooks registers custom aggregation hooks.
// This should be called once at application startup.
func SetAggregationHooks(h AggregationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		aggregationHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Aggregation returns the registered aggregation hooks.
func Aggregation() AggregationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return aggregationHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	aggregationHooks = NoopAggregationHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
