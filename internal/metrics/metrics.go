// Package metrics provides Prometheus instrumentation for the exchange.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SwapsTotal counts executed swaps, partitioned by direction.
	SwapsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myswap_swaps_total",
		Help: "Total number of swaps executed",
	}, []string{"direction"})

	// SwapLatency tracks swap execution latency.
	SwapLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "myswap_swap_latency_seconds",
		Help:    "Swap execution latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})

	// LiquidityEventsTotal counts add/remove liquidity and share transfers.
	LiquidityEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myswap_liquidity_events_total",
		Help: "Liquidity operations executed",
	}, []string{"kind"})

	// RejectedOperations counts pool operations that failed, by reason.
	RejectedOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myswap_rejected_operations_total",
		Help: "Pool operations rejected, by reason",
	}, []string{"operation", "reason"})

	// ActivePools tracks the number of pools.
	ActivePools = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "myswap_active_pools",
		Help: "Number of pools",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "myswap_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myswap_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "myswap_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})

	// PoolVolume tracks cumulative swap input per pool, in ether units of
	// the input asset.
	PoolVolume = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myswap_pool_volume_total",
		Help: "Cumulative swap input volume",
	}, []string{"pool_id", "asset"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern for path label to avoid high cardinality.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer cannot be hijacked")
	}
	return h.Hijack()
}
