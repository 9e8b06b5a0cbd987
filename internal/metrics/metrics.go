// Package metrics holds the Prometheus collectors for handler invocations.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Invocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelhub_invocations_total",
			Help: "Handler invocations by handler, method and response status.",
		},
		[]string{"handler", "method", "status"},
	)

	InvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelhub_invocation_duration_seconds",
			Help:    "Handler invocation latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// ObserveInvocation records one finished handler call.
func ObserveInvocation(handler, method string, status int, elapsed time.Duration) {
	Invocations.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	InvocationDuration.WithLabelValues(handler, method).Observe(elapsed.Seconds())
}
