// Package metrics holds the Prometheus collectors of the gateway and the
// HTTP server exposing them.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ruteri/creator-hub-gateway/common"
)

const namespace = common.PackageName

// Key distribution outcomes.
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
	OutcomeMissing = "missing"
	OutcomeError   = "error"
)

var (
	registry = prometheus.NewRegistry()

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10, 30},
		},
		[]string{"route", "method"},
	)

	OracleInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_invocations_total",
			Help:      "Total number of contract invocations by method and result",
		},
		[]string{"method", "result"},
	)

	OracleInvocationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_invocation_duration_seconds",
			Help:      "Duration of contract invocations in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10, 30, 60, 120},
		},
		[]string{"method"},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of pinning uploads by backend and result",
		},
		[]string{"backend", "result"},
	)

	KeyDistributionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_distribution_total",
			Help:      "Total number of content key requests by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		OracleInvocationsTotal,
		OracleInvocationDurationSeconds,
		UploadsTotal,
		KeyDistributionTotal,
	)
}

// Registry returns the registry all gateway collectors are registered with.
func Registry() *prometheus.Registry {
	return registry
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveOracleInvocation records one contract invocation.
func ObserveOracleInvocation(method string, err error, d time.Duration) {
	OracleInvocationsTotal.WithLabelValues(method, result(err)).Inc()
	OracleInvocationDurationSeconds.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveUpload records one pinning upload.
func ObserveUpload(backend string, err error) {
	UploadsTotal.WithLabelValues(backend, result(err)).Inc()
}

// ObserveKeyDistribution records the outcome of one content key request.
func ObserveKeyDistribution(outcome string) {
	KeyDistributionTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latencies labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPRequestDurationSeconds.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// IsServerClosed reports whether err is the expected result of a shutdown.
func IsServerClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}
