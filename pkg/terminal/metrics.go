package terminal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terminal_units_inserted_total",
		Help: "The total number of units inserted into the dag.",
	})
	unitsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terminal_units_rejected_total",
		Help: "The total number of units dropped as invalid.",
	})
	forksDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terminal_forks_detected_total",
		Help: "The total number of units forking an already known unit.",
	})
	unitsWaiting = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terminal_units_waiting",
		Help: "The number of units waiting for their parents, summed over all terminals of the process.",
	})
)
