package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	submitted prometheus.Counter
	rejected  *prometheus.CounterVec
	served    prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewRegistry creates a registry with Go runtime and process metrics.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockrush_scores_submitted_total",
			Help: "Total number of accepted score submissions",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lockrush_scores_rejected_total",
			Help: "Total number of rejected score submissions",
		}, []string{"reason"}),
		served: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lockrush_leaderboard_requests_total",
			Help: "Total number of leaderboard reads served",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lockrush_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "code"}),
	}
	reg.MustRegister(m.submitted, m.rejected, m.served, m.duration)
	return m
}
