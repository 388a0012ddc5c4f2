package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements every hook interface with Prometheus metrics.
type PrometheusHooks struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webern_renders_total",
			Help: "Artifacts rendered, by format and outcome.",
		}, []string{"format", "status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webern_render_duration_seconds",
			Help:    "Time spent rendering one artifact.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webern_cache_events_total",
			Help: "Artifact cache hits, misses and writes.",
		}, []string{"event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webern_cache_written_bytes_total",
			Help: "Bytes written to the artifact cache.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webern_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webern_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg != nil {
		reg.MustRegister(h.renders, h.renderDuration, h.cacheEvents, h.cacheBytes, h.httpRequests, h.httpDuration)
	}
	return h
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.renders.WithLabelValues(format, status).Inc()
	h.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(context.Context, string) {
	h.cacheEvents.WithLabelValues("hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(context.Context, string) {
	h.cacheEvents.WithLabelValues("miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, _ string, size int) {
	h.cacheEvents.WithLabelValues("set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(_ context.Context, _ string, route string, code int, d time.Duration) {
	h.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ RenderHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)
