package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PositionOpensTotal counts observed zero-to-nonzero position transitions.
	PositionOpensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_tracker_position_opens_total",
		Help: "Total position opens observed on the state stream",
	})

	// PositionClosesTotal counts observed nonzero-to-zero position transitions.
	PositionClosesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_tracker_position_closes_total",
		Help: "Total position closes observed on the state stream",
	})

	// GameBoundariesTotal counts game-identifier changes.
	GameBoundariesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_tracker_game_boundaries_total",
		Help: "Total game boundaries detected from game id changes",
	})

	// TimeInPosition is the current position duration in ticks.
	TimeInPosition = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_actions_tracker_time_in_position_ticks",
		Help: "Ticks the current position has been open, zero when flat",
	})

	// RewardObserved is the cumulative-PnL delta of the last persisted action.
	RewardObserved = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_actions_tracker_last_reward",
		Help: "Cumulative PnL delta across the most recent persisted action",
	})
)
