// Package metrics declares the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlansTotal counts planning requests by outcome ("ok" or an error kind).
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelplan_plans_total",
		Help: "Total planning requests by outcome",
	}, []string{"outcome"})

	PlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuelplan_plan_duration_seconds",
		Help:    "End-to-end planning duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
	})

	// LPSolvesTotal counts per-subset LP solves by result. Subsets pruned for an
	// over-range leg count as infeasible.
	LPSolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelplan_lp_solves_total",
		Help: "Total fueling LP solves by result",
	}, []string{"result"})

	DistanceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelplan_distance_cache_hits_total",
		Help: "Station pairs served from the distance cache",
	})

	DistanceCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelplan_distance_cache_misses_total",
		Help: "Station pairs fetched from the route provider",
	})

	CandidatesSelected = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuelplan_candidates_selected",
		Help:    "Number of candidate stations per plan",
		Buckets: []float64{0, 1, 2, 4, 6, 8, 12, 16, 20, 24},
	})
)
