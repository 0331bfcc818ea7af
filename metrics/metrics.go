// Package metrics provides Prometheus metrics for both the HTTP surface and
// the PBS fetch pipeline:
//   - http_request_total / http_request_duration_seconds / http_request_in_flight
//   - pbs_fetch_total: Counter with endpoint and status labels
//   - pbs_fetch_retries_total: Counter of retried fetch attempts
//   - pipeline_duration_seconds: Histogram of full pipeline runs
//   - biologics_combinations_loaded: Gauge of rows in the current fact table
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	PBSFetchTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pbs_fetch_total",
			Help: "Total requests issued against the PBS public data API",
		},
		[]string{"endpoint", "status"},
	)

	PBSFetchRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pbs_fetch_retries_total",
			Help: "Fetch attempts retried after a transient failure",
		},
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Duration of full fetch-join-flatten pipeline runs",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 3600},
		},
	)

	CombinationsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "biologics_combinations_loaded",
			Help: "Rows in the currently served fact table",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(PBSFetchTotals)
	prometheus.MustRegister(PBSFetchRetries)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(CombinationsLoaded)
}
