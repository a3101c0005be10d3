package linear

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitsOrdered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linear_units_ordered_total",
		Help: "The total number of units emitted in ordered batches.",
	})
	roundsDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linear_rounds_decided_total",
		Help: "The total number of rounds decided, by outcome.",
	}, []string{"outcome"})
)
