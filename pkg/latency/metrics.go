package latency

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SamplesRecordedTotal counts latency samples appended to the window.
	SamplesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_latency_samples_total",
		Help: "Total number of confirmation latency samples recorded",
	})

	// ConfirmationLatencySeconds tracks the full distribution of action
	// round-trip latency, independent of the rolling window.
	ConfirmationLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_actions_confirmation_latency_seconds",
		Help:    "Wall-clock time from action issuance to confirmed observation",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)
