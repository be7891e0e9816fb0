package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline collectors. Built against an explicit
// registerer so tests can use a throwaway registry.
type Metrics struct {
	JobsTotal     *prometheus.CounterVec
	JobsInFlight  prometheus.Gauge
	StageDuration *prometheus.HistogramVec
	BytesMoved    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "normalizer_jobs_total",
			Help: "Jobs by terminal outcome",
		}, []string{"outcome"}),
		JobsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "normalizer_jobs_in_flight",
			Help: "Jobs currently running",
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "normalizer_stage_duration_seconds",
			Help:    "Wall time per pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"}),
		BytesMoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "normalizer_bytes_total",
			Help: "Bytes transferred by direction",
		}, []string{"direction"}),
	}
}
