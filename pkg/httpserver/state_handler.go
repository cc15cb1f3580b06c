package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// StateHandler serves read-only JSON views of player state and latency.
type StateHandler struct {
	state   StateProvider
	latency LatencyProvider
	logger  *zap.Logger
}

// NewStateHandler creates a new state handler.
func NewStateHandler(state StateProvider, latency LatencyProvider, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		state:   state,
		latency: latency,
		logger:  logger,
	}
}

// HandleState returns the current player-state snapshot.
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	snapshot := h.state.StateSnapshot()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(snapshot)
	if err != nil {
		h.logger.Error("encode-state-response-failed", zap.Error(err))
	}
}

// HandleLatency returns the rolling-window latency summary.
func (h *StateHandler) HandleLatency(w http.ResponseWriter, r *http.Request) {
	stats := h.latency.LatencyStats()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(stats)
	if err != nil {
		h.logger.Error("encode-latency-response-failed", zap.Error(err))
	}
}
