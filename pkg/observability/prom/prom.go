// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/boxypic/pkg/observability"
)

const (
	resultLabel  = "result"
	keyTypeLabel = "key_type"
	formatLabel  = "format"
	methodLabel  = "method"
	routeLabel   = "route"
	statusLabel  = "status"

	namespace = "boxypic"
)

// Hooks records pipeline, cache, and HTTP events as Prometheus metrics.
type Hooks struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	buildNodes    prometheus.Histogram
	buildLeaves   prometheus.Histogram
	imagePixels   prometheus.Histogram

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requestsInFlight prometheus.Gauge
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "The number of quadtree builds.",
		}, []string{resultLabel}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building quadtrees.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		buildNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_nodes",
			Help:      "Nodes allocated per build.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		buildLeaves: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_leaves",
			Help:      "Leaves produced per build.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		imagePixels: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_pixels",
			Help:      "Pixels in each decomposed image.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "The number of artifacts rendered.",
		}, []string{formatLabel, resultLabel}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent encoding artifacts.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits.",
		}, []string{keyTypeLabel}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses.",
		}, []string{keyTypeLabel}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{keyTypeLabel}),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{methodLabel, routeLabel, statusLabel}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{methodLabel, routeLabel}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnBuildStart implements observability.PipelineHooks.
func (h *Hooks) OnBuildStart(_ context.Context, width, height int, _ float64, _ int) {
	h.imagePixels.Observe(float64(width * height))
}

// OnBuildComplete implements observability.PipelineHooks.
func (h *Hooks) OnBuildComplete(_ context.Context, nodes, leaves int, d time.Duration, err error) {
	h.builds.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	h.buildDuration.Observe(d.Seconds())
	h.buildNodes.Observe(float64(nodes))
	h.buildLeaves.Observe(float64(leaves))
}

// OnRenderStart implements observability.PipelineHooks.
func (h *Hooks) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements observability.PipelineHooks.
func (h *Hooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		h.renders.WithLabelValues(f, result(err)).Inc()
	}
	h.renderDuration.Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheHits.WithLabelValues(keyType).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheMisses.WithLabelValues(keyType).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (h *Hooks) OnRequest(context.Context, string, string) {
	h.requestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requestsInFlight.Dec()
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
