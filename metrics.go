package sattrack

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	propagationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_propagations_total",
			Help: "Total number of orbit propagations, by model.",
		},
		[]string{"model"},
	)

	keplerFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattrack_kepler_fallbacks_total",
			Help: "Kepler solves that hit the iteration cap without converging.",
		},
	)

	searchExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_search_exhausted_total",
			Help: "Event searches that hit their iteration or window cap.",
		},
		[]string{"search"},
	)
)

func init() {
	prometheus.MustRegister(propagationsTotal)
	prometheus.MustRegister(keplerFallbacksTotal)
	prometheus.MustRegister(searchExhaustedTotal)
}
