package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors exported on /metrics.
type Metrics struct {
	requests   *prometheus.CounterVec
	failures   *prometheus.CounterVec
	evolutions prometheus.Histogram
	qubits     prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qevolve",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qevolve",
			Name:      "circuit_errors_total",
			Help:      "Rejected circuits by error code.",
		}, []string{"code"}),
		evolutions: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qevolve",
			Name:      "evolution_duration_seconds",
			Help:      "Wall time of one circuit evolution.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		qubits: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qevolve",
			Name:      "circuit_qubits",
			Help:      "Register size of evolved circuits.",
			Buckets:   prometheus.LinearBuckets(1, 2, 12),
		}),
	}
}
