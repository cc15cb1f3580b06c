package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections is 1 while the stream subscription is up.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_actions_stream_active_connections",
		Help: "Whether the state-update stream connection is established",
	})

	// FramesReceivedTotal counts raw frames read from the socket.
	FramesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_frames_received_total",
		Help: "Total raw frames received on the state-update stream",
	})

	// MalformedFramesTotal counts unparseable frames (logged and dropped).
	MalformedFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_malformed_frames_total",
		Help: "Total malformed state-update frames dropped",
	})

	// DuplicateFramesTotal counts at-least-once redeliveries suppressed.
	DuplicateFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_duplicate_frames_total",
		Help: "Total duplicate state-update deliveries suppressed",
	})

	// EventsDeliveredTotal counts normalized events handed downstream.
	EventsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_events_delivered_total",
		Help: "Total normalized state-update events delivered downstream",
	})

	// EventsDroppedTotal counts events dropped on a full buffer.
	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_events_dropped_total",
		Help: "Total events dropped because the event buffer was full",
	})

	// ReconnectAttemptsTotal counts reconnection attempts.
	ReconnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_reconnect_attempts_total",
		Help: "Total stream reconnection attempts",
	})

	// ReconnectFailuresTotal counts failed reconnection attempts.
	ReconnectFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_actions_stream_reconnect_failures_total",
		Help: "Total failed stream reconnection attempts",
	})
)
