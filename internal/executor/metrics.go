package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchesTotal counts successfully dispatched actions.
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_actions_executor_dispatches_total",
			Help: "Total actions dispatched by executor kind and action type",
		},
		[]string{"kind", "action_type"},
	)

	// DispatchErrorsTotal counts dispatch failures (the action never went out).
	DispatchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_actions_executor_dispatch_errors_total",
			Help: "Total dispatch failures by executor kind",
		},
		[]string{"kind"},
	)
)
