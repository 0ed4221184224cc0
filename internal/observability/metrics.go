package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	portalRequestsTotal  *prometheus.CounterVec
	portalLatencySeconds *prometheus.HistogramVec
	portalErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for portal client observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		portalRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_client_requests_total",
			Help: "Total number of portal API requests issued by the console.",
		}, []string{"method", "route", "status"})

		portalLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_client_latency_seconds",
			Help:    "Latency distribution for portal API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		portalErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_client_errors_total",
			Help: "Total number of failed portal API requests, by failure class.",
		}, []string{"method", "route", "kind"})

		prometheus.MustRegister(portalRequestsTotal, portalLatencySeconds, portalErrorsTotal)
	})
}

// PortalRequests exposes the counter for portal API requests.
func PortalRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return portalRequestsTotal
}

// PortalLatency exposes the latency histogram for portal API requests.
func PortalLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return portalLatencySeconds
}

// PortalErrors exposes the counter for failed portal API requests.
func PortalErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return portalErrorsTotal
}
