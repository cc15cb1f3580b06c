package executor

import (
	"fmt"

	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// Visual renders each button press to the console so a human supervising a
// validation session can see what the automation is doing while the real
// game surface is driven by hand.
type Visual struct {
	logger *zap.Logger
}

// NewVisual creates a visual executor.
func NewVisual(logger *zap.Logger) *Visual {
	logger.Info("visual-executor-initialized")
	return &Visual{
		logger: logger,
	}
}

// Execute validates the action and renders the press.
func (v *Visual) Execute(typ types.ActionType, params types.ActionParams) (types.ExecutionRecord, error) {
	err := validateParams(typ, params)
	if err != nil {
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorVisual)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorVisual,
			Type:   typ,
			Reason: "invalid parameters",
			Err:    err,
		}
	}

	rec := newRecord(types.ExecutorVisual, typ, params)

	fmt.Println("\n" + "────────────────────────────────────────────")
	switch typ {
	case types.ActionOpen:
		fmt.Printf("🟢 PRESS: OPEN amount=%.4f\n", params.Amount)
	case types.ActionClose:
		if params.Quantity > 0 {
			fmt.Printf("🔴 PRESS: CLOSE quantity=%.6f\n", params.Quantity)
		} else {
			fmt.Printf("🔴 PRESS: CLOSE (all)\n")
		}
	case types.ActionSideWager:
		fmt.Printf("🟡 PRESS: SIDE_WAGER amount=%.4f\n", params.Amount)
	}
	fmt.Printf("   id=%s issued=%s\n", rec.ActionID[:8], rec.IssuedAt.Format("15:04:05.000"))
	fmt.Println("────────────────────────────────────────────")

	DispatchesTotal.WithLabelValues(string(types.ExecutorVisual), string(typ)).Inc()

	v.logger.Info("visual-action-dispatched",
		zap.String("action-id", rec.ActionID),
		zap.String("action-type", string(typ)))

	return rec, nil
}

// Close is a no-op for the visual executor.
func (v *Visual) Close() error {
	return nil
}
