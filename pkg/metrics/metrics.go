package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nextbus",
		Name:      "cache_lookups_total",
		Help:      "Arrival cache lookups by result (hit, miss)",
	}, []string{"result"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nextbus",
		Name:      "upstream_requests_total",
		Help:      "Requests made to the TfL arrivals endpoint by outcome",
	}, []string{"outcome"})

	UpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nextbus",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests to the TfL arrivals endpoint",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
	})
)
