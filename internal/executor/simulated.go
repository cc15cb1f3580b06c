package executor

import (
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// Simulated dispatches actions into a synthetic game engine with zero
// latency. Used for training runs where wall-clock round trips would only
// slow things down.
type Simulated struct {
	commands chan<- types.ExecutionRecord
	logger   *zap.Logger
}

// NewSimulated creates a simulated executor feeding the given command channel.
func NewSimulated(commands chan<- types.ExecutionRecord, logger *zap.Logger) *Simulated {
	return &Simulated{
		commands: commands,
		logger:   logger,
	}
}

// Execute validates and hands the action to the synthetic engine. The send
// is non-blocking: a full command channel means the engine is gone or
// stalled, which is a dispatch failure, not a confirmation timeout.
func (s *Simulated) Execute(typ types.ActionType, params types.ActionParams) (types.ExecutionRecord, error) {
	err := validateParams(typ, params)
	if err != nil {
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorSimulated)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorSimulated,
			Type:   typ,
			Reason: "invalid parameters",
			Err:    err,
		}
	}

	rec := newRecord(types.ExecutorSimulated, typ, params)

	select {
	case s.commands <- rec:
	default:
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorSimulated)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorSimulated,
			Type:   typ,
			Reason: "simulation engine unavailable",
		}
	}

	DispatchesTotal.WithLabelValues(string(types.ExecutorSimulated), string(typ)).Inc()

	s.logger.Debug("simulated-action-dispatched",
		zap.String("action-id", rec.ActionID),
		zap.String("action-type", string(typ)))

	return rec, nil
}

// Close is a no-op; the engine owns the command channel lifecycle.
func (s *Simulated) Close() error {
	return nil
}
