package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathergw_provider_requests_total",
			Help: "Total upstream provider requests by outcome",
		},
		[]string{"provider", "endpoint", "outcome"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weathergw_provider_latency_seconds",
			Help:    "Upstream provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)

	DispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weathergw_dispatch_errors_total",
			Help: "Weather requests that ended in a classified failure",
		},
		[]string{"kind"},
	)

	ProbeUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weathergw_provider_probe_up",
			Help: "1 when the last health probe of a provider succeeded",
		},
		[]string{"provider"},
	)
)

// RecordDispatchError is suitable as a weather.WithErrorHook callback.
func RecordDispatchError(kind string) {
	DispatchErrors.WithLabelValues(kind).Inc()
}
