package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPipelineMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnBuildStart(ctx, 64, 64, 5, 7)
	h.OnBuildComplete(ctx, 85, 64, time.Millisecond, nil)
	h.OnBuildComplete(ctx, 0, 0, 0, errors.New("boom"))

	require.Equal(t, 1.0, testutil.ToFloat64(h.builds.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(h.builds.WithLabelValues("error")))

	h.OnRenderStart(ctx, []string{"png", "svg"})
	h.OnRenderComplete(ctx, []string{"png", "svg"}, time.Millisecond, nil)
	require.Equal(t, 1.0, testutil.ToFloat64(h.renders.WithLabelValues("png", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(h.renders.WithLabelValues("svg", "ok")))
}

func TestCacheMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnCacheHit(ctx, "artifact")
	h.OnCacheHit(ctx, "artifact")
	h.OnCacheMiss(ctx, "stats")
	h.OnCacheSet(ctx, "artifact", 512)

	require.Equal(t, 2.0, testutil.ToFloat64(h.cacheHits.WithLabelValues("artifact")))
	require.Equal(t, 1.0, testutil.ToFloat64(h.cacheMisses.WithLabelValues("stats")))
	require.Equal(t, 512.0, testutil.ToFloat64(h.cacheBytes.WithLabelValues("artifact")))
}

func TestHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnRequest(ctx, "POST", "/v1/render")
	require.Equal(t, 1.0, testutil.ToFloat64(h.requestsInFlight))

	h.OnResponse(ctx, "POST", "/v1/render", 200, 10*time.Millisecond)
	require.Equal(t, 0.0, testutil.ToFloat64(h.requestsInFlight))
	require.Equal(t, 1.0, testutil.ToFloat64(h.requests.WithLabelValues("POST", "/v1/render", "200")))
}

func TestRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
