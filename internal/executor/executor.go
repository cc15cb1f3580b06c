// Package executor issues game actions through one of three interchangeable
// back-ends: visual (animated console feedback for human-supervised
// validation), live (drives the remote automation bridge), and simulated
// (instantaneous, for training). Dispatch is fire-and-forget: whether an
// action actually succeeded arrives later on the state-update stream.
package executor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// ActionExecutor dispatches a single action. Execute is synchronous, never
// blocks waiting for confirmation, and triggers the real or simulated game
// effect exactly once per call. IssuedAt is stamped at the moment the
// effect goes out, after parameter validation.
type ActionExecutor interface {
	Execute(typ types.ActionType, params types.ActionParams) (types.ExecutionRecord, error)
	Close() error
}

// Config selects and configures an executor back-end.
type Config struct {
	Kind            types.ExecutorKind
	Logger          *zap.Logger
	BridgeURL       string                       // live
	InputRatePerSec float64                      // live
	Commands        chan<- types.ExecutionRecord // simulated
}

// New creates the executor for the configured kind.
func New(cfg *Config) (ActionExecutor, error) {
	switch cfg.Kind {
	case types.ExecutorVisual:
		return NewVisual(cfg.Logger), nil
	case types.ExecutorLive:
		return NewLive(&LiveConfig{
			BridgeURL:       cfg.BridgeURL,
			InputRatePerSec: cfg.InputRatePerSec,
			Logger:          cfg.Logger,
		})
	case types.ExecutorSimulated:
		return NewSimulated(cfg.Commands, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unknown executor kind: %q", cfg.Kind)
	}
}

// validateParams rejects malformed parameters before any side effect.
func validateParams(typ types.ActionType, params types.ActionParams) error {
	switch typ {
	case types.ActionOpen:
		if params.Amount <= 0 {
			return fmt.Errorf("OPEN requires a positive amount, got %f", params.Amount)
		}
	case types.ActionClose:
		if params.Quantity < 0 {
			return fmt.Errorf("CLOSE quantity cannot be negative, got %f", params.Quantity)
		}
	case types.ActionSideWager:
		if params.Amount <= 0 {
			return fmt.Errorf("SIDE_WAGER requires a positive amount, got %f", params.Amount)
		}
	default:
		return fmt.Errorf("unknown action type: %q", typ)
	}

	return nil
}

// newRecord stamps the issuance record at the moment of dispatch.
func newRecord(kind types.ExecutorKind, typ types.ActionType, params types.ActionParams) types.ExecutionRecord {
	return types.ExecutionRecord{
		ActionID: uuid.NewString(),
		Type:     typ,
		Params:   params,
		IssuedAt: time.Now(),
		Kind:     kind,
	}
}
