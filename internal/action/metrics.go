package action

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsTotal counts ExecuteAction calls by type and terminal outcome.
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_actions_executed_total",
			Help: "Total executed actions by type and outcome",
		},
		[]string{"action_type", "outcome"},
	)

	// ActionDurationSeconds tracks full ExecuteAction duration including
	// the confirmation wait.
	ActionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_actions_execute_duration_seconds",
		Help:    "Duration of ExecuteAction calls end to end",
		Buckets: prometheus.DefBuckets,
	})
)
