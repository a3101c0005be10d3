package creator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creator_units_created_total",
		Help: "The total number of units created by local processes.",
	})
	currentRound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "creator_round",
		Help: "The round of the most recently created unit.",
	})
)
