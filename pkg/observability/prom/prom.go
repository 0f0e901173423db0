// Package prom records crashviz hook events as Prometheus metrics.
//
// Create a Metrics value against a registry and install it with
// observability.Install (usually combined with LogHooks through
// observability.Multi). The API server exposes the registry on /metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/crashviz/pkg/observability"
)

const namespace = "crashviz"

var durationBuckets = []float64{0.5, 1, 5, 10, 20, 50, 100, 200, 500, 1000}

// Metrics implements every observability hook interface.
type Metrics struct {
	RowsRejected    *prometheus.CounterVec
	DetailNotFound  prometheus.Counter
	RecordsLoaded   *prometheus.GaugeVec
	Recomputes      *prometheus.CounterVec
	RecomputeMs     prometheus.Histogram
	Renders         *prometheus.CounterVec
	RenderBytes     *prometheus.HistogramVec
	CacheEvents     *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the crashviz collectors and registers them with reg.
// A nil reg registers nothing, which is useful in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Source rows dropped by record cleaning",
		}, []string{"source"}),
		DetailNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_not_found_total",
			Help:      "Drill-down requests for causes without location data",
		}),
		RecordsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Records held after the last successful load",
		}, []string{"source"}),
		Recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputes_total",
			Help:      "Chart recomputations by outcome",
		}, []string{"outcome"}),
		RecomputeMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_ms",
			Help:      "Recompute duration in milliseconds",
			Buckets:   durationBuckets,
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered artifacts by format and outcome",
		}, []string{"format", "outcome"}),
		RenderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_bytes",
			Help:      "Size of rendered artifacts",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"format"}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"type", "event"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "API request duration in milliseconds",
			Buckets:   durationBuckets,
		}, []string{"route"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.RowsRejected, m.DetailNotFound, m.RecordsLoaded,
			m.Recomputes, m.RecomputeMs, m.Renders, m.RenderBytes,
			m.CacheEvents, m.RequestsTotal, m.RequestDuration,
		)
	}
	return m
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnRecordRejected(source string, _ int, _ string) {
	m.RowsRejected.WithLabelValues(source).Inc()
}

func (m *Metrics) OnDetailNotFound(string) { m.DetailNotFound.Inc() }

func (m *Metrics) OnLoadComplete(_ context.Context, source string, records, _ int, _ time.Duration, err error) {
	if err == nil {
		m.RecordsLoaded.WithLabelValues(source).Set(float64(records))
	}
}

func (m *Metrics) OnRecomputeStart(context.Context, string, int) {}

func (m *Metrics) OnRecomputeComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.Recomputes.WithLabelValues(outcome(err)).Inc()
	m.RecomputeMs.Observe(ms(d))
}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	m.Renders.WithLabelValues(format, outcome(err)).Inc()
	if err == nil {
		m.RenderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(ms(d))
}

var _ observability.Hooks = (*Metrics)(nil)
