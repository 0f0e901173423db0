package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes hook events as structured log lines. It implements
// AggregationHooks, PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnRecordRejected(source string, line int, reason string) {
	h.Logger.Debug("rejected row", "source", source, "line", line, "reason", reason)
}

func (h *LogHooks) OnDetailNotFound(cause string) {
	h.Logger.Info("no location data for cause", "cause", cause)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, records, rejected int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("load failed", "source", source, "err", err)
		return
	}
	h.Logger.Info("loaded records", "source", source, "records", records, "rejected", rejected, "duration", d)
}

func (h *LogHooks) OnRecomputeStart(_ context.Context, selection string, records int) {
	h.Logger.Debug("recompute", "selection", selection, "records", records)
}

func (h *LogHooks) OnRecomputeComplete(_ context.Context, selection string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("recompute failed", "selection", selection, "err", err)
		return
	}
	h.Logger.Debug("recomputed", "selection", selection, "duration", d)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "format", format, "err", err)
		return
	}
	h.Logger.Debug("rendered", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ AggregationHooks = (*LogHooks)(nil)
	_ PipelineHooks    = (*LogHooks)(nil)
	_ CacheHooks       = (*LogHooks)(nil)
	_ HTTPHooks        = (*LogHooks)(nil)
)
