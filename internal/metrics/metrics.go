package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Calculation metrics
	CalculationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_calculations_total",
			Help: "Total number of price calculations",
		},
	)

	CalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_calculation_duration_seconds",
			Help:    "Price calculation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RulesApplied = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_rules_applied",
			Help:    "Number of rules applied per calculation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	FinalPrice = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_final_price",
			Help:    "Final price distribution",
			Buckets: []float64{5, 10, 20, 30, 50, 75, 100, 150, 250},
		},
	)

	// Collaborator metrics
	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_collaborator_failures_total",
			Help: "Total number of degraded collaborator fetches",
		},
		[]string{"collaborator"},
	)

	OccupancyCacheHit = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_occupancy_cache_hit_total",
			Help: "Total number of occupancy cache hits",
		},
	)

	OccupancyCacheMiss = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_occupancy_cache_miss_total",
			Help: "Total number of occupancy cache misses",
		},
	)

	// Rule administration metrics
	RuleChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rule_changes_total",
			Help: "Total number of rule create/update operations",
		},
		[]string{"action"},
	)
)

// RecordCalculation records one completed calculation.
func RecordCalculation(start time.Time, rulesApplied int, finalPrice float64) {
	CalculationsTotal.Inc()
	CalculationDuration.Observe(time.Since(start).Seconds())
	RulesApplied.Observe(float64(rulesApplied))
	FinalPrice.Observe(finalPrice)
}
