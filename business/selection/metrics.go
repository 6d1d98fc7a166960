package selection

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	NoveltyRefitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rotd_novelty_refits_total",
			Help: "Count of novelty model refits (cache misses on the recent window).",
		},
	)

	SamplerFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rotd_sampler_uniform_fallbacks_total",
			Help: "Count of Boltzmann sampling rounds that degraded to a uniform draw.",
		},
	)
)

func init() {
	prometheus.MustRegister(NoveltyRefitsTotal, SamplerFallbacksTotal)
}
