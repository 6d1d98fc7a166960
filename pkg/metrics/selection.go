package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the record-of-the-day selection pipeline
	SelectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rotd_selection_duration_seconds",
		Help:    "Latency of the record of the day selection pipeline",
		Buckets: prometheus.DefBuckets,
	})

	// Selections served, by method (thermodynamic_boltzmann, fallback, ...)
	SelectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rotd_selections_total",
		Help: "Total record of the day selections by selection method",
	}, []string{"method"})

	ScrapeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_scrape_requests_total",
		Help: "Inventory scrape runs by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		SelectionDuration,
		SelectionsTotal,
		ScrapeRequestsTotal,
	)
}
