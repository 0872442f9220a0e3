package traversal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	visitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ltlmc_traversal_visited_total",
		Help: "Distinct states visited by traversals",
	}, []string{"traversal"})

	edgesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ltlmc_traversal_edges_skipped_total",
		Help: "Transitions that failed during traversals",
	}, []string{"traversal"})

	terminationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ltlmc_traversal_terminations_total",
		Help: "Distinct terminal states found by traversals",
	}, []string{"traversal"})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ltlmc_traversal_steps_total",
		Help: "States taken from the work queue by traversals",
	}, []string{"traversal"})

	maxDepthGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ltlmc_traversal_max_depth",
		Help: "Largest depth reached by the last traversal",
	}, []string{"traversal"})
)

func observe(name string, r Report) {
	visitedTotal.WithLabelValues(name).Add(float64(r.Visited))
	edgesSkippedTotal.WithLabelValues(name).Add(float64(r.EdgesSkipped))
	terminationsTotal.WithLabelValues(name).Add(float64(r.Terminations))
	stepsTotal.WithLabelValues(name).Add(float64(r.TotalSteps))
	maxDepthGauge.WithLabelValues(name).Set(float64(r.MaxDepth))
}
