package observability

import (
	"context"
	"time"
)

// Hooks is a value implementing every hook interface.
type Hooks interface {
	AggregationHooks
	PipelineHooks
	CacheHooks
	HTTPHooks
}

// Multi fans every event out to all of its members in order.
type Multi []Hooks

func (m Multi) OnRecordRejected(source string, line int, reason string) {
	for _, h := range m {
		h.OnRecordRejected(source, line, reason)
	}
}

func (m Multi) OnDetailNotFound(cause string) {
	for _, h := range m {
		h.OnDetailNotFound(cause)
	}
}

func (m Multi) OnLoadComplete(ctx context.Context, source string, records, rejected int, d time.Duration, err error) {
	for _, h := range m {
		h.OnLoadComplete(ctx, source, records, rejected, d, err)
	}
}

func (m Multi) OnRecomputeStart(ctx context.Context, selection string, records int) {
	for _, h := range m {
		h.OnRecomputeStart(ctx, selection, records)
	}
}

func (m Multi) OnRecomputeComplete(ctx context.Context, selection string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRecomputeComplete(ctx, selection, d, err)
	}
}

func (m Multi) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, format, size, d, err)
	}
}

func (m Multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m Multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m Multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (m Multi) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, route, status, d)
	}
}

// Install registers h for every hook category.
func Install(h Hooks) {
	SetAggregationHooks(h)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}
