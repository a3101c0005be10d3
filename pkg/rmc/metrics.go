package rmc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Setheum-Labs/HS3/pkg/gomel"
)

// Metrics receives the completion events of sessions.
type Metrics interface {
	// ReportAggregationComplete is called exactly once per completed session.
	ReportAggregationComplete(gomel.Hash)
}

// PrometheusMetrics reports completed sessions to prometheus.
type PrometheusMetrics struct {
	completed     prometheus.Counter
	lastCompleted prometheus.Gauge
}

// NewPrometheusMetrics registers the metrics of sessions with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		completed: factory.NewCounter(prometheus.CounterOpts{
			Name: "rmc_aggregations_completed_total",
			Help: "The total number of completed multisignatures.",
		}),
		lastCompleted: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rmc_last_completion_timestamp_seconds",
			Help: "The time of the most recent completion.",
		}),
	}
}

// ReportAggregationComplete implements Metrics.
func (pm *PrometheusMetrics) ReportAggregationComplete(gomel.Hash) {
	pm.completed.Inc()
	pm.lastCompleted.SetToCurrentTime()
}
