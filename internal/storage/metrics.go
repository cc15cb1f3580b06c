package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WritesTotal counts records successfully appended to the log.
	WritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_log_writes_total",
		Help: "Total confirmed-action records appended to the durable log",
	})

	// WriteErrorsTotal counts failed backend writes.
	WriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_log_write_errors_total",
		Help: "Total action log write failures",
	})

	// WritesDroppedTotal counts records dropped because the async buffer
	// was full.
	WritesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_log_writes_dropped_total",
		Help: "Total records dropped to keep the confirmation path unblocked",
	})
)
