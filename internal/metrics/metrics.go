// Package metrics holds the Prometheus collectors of the client.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "discovery"

// Dispatch and outcome metrics.
var (
	DispatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_requests_total",
			Help:      "Requests sent to the data service",
		},
		[]string{"method", "path", "status"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Data service request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	QueryOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_outcomes_total",
			Help:      "Terminal outcomes of free-text queries and dataset searches",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the MCP HTTP server",
		},
		[]string{"method", "path", "status"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(DispatchRequestsTotal)
		prometheus.MustRegister(DispatchDuration)
		prometheus.MustRegister(QueryOutcomesTotal)
		prometheus.MustRegister(HTTPRequestsTotal)
	})
}

// ObserveDispatch records one request to the data service. Status zero
// means the request failed before a response arrived.
func ObserveDispatch(method, path string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	DispatchRequestsTotal.WithLabelValues(method, path, label).Inc()
	DispatchDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveOutcome counts a terminal outcome by event name.
func ObserveOutcome(name string) {
	QueryOutcomesTotal.WithLabelValues(name).Inc()
}
