package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PendingActions tracks actions currently awaiting confirmation.
	PendingActions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_actions_monitor_pending",
		Help: "Number of actions currently awaiting confirmation",
	})

	// ResolutionsTotal counts terminal resolutions by action type and outcome.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_actions_monitor_resolutions_total",
			Help: "Total pending-action resolutions by type and outcome",
		},
		[]string{"action_type", "outcome"},
	)

	// RegistrationsRejectedTotal counts duplicate same-type registrations.
	RegistrationsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_monitor_registrations_rejected_total",
		Help: "Total registrations rejected because a same-type action was pending",
	})
)
