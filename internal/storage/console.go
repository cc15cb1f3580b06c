package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ConsoleLog implements ActionLog by pretty-printing to console. Used for
// human-supervised validation runs.
type ConsoleLog struct {
	logger *zap.Logger
}

// NewConsoleLog creates a new console action log.
func NewConsoleLog(logger *zap.Logger) *ConsoleLog {
	logger.Info("console-action-log-initialized")
	return &ConsoleLog{
		logger: logger,
	}
}

// Write pretty-prints a confirmed-action record to console.
func (c *ConsoleLog) Write(ctx context.Context, action *PersistedAction) error {
	outcome := "❌ UNCONFIRMED"
	if action.Result.Confirmed {
		outcome = "✅ CONFIRMED"
	}

	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("🎮 ACTION %s\n", outcome)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("ID:       %s\n", action.Record.ActionID[:8])
	fmt.Printf("Type:     %s (%s executor)\n", action.Record.Type, action.Record.Kind)
	fmt.Printf("Issued:   %s\n", action.Record.IssuedAt.Format("2006-01-02 15:04:05.000"))
	if action.Result.Confirmed {
		fmt.Printf("Latency:  %s\n", action.Result.Latency)
	} else {
		fmt.Printf("Outcome:  %s\n", action.Result.Outcome)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 STATE\n")
	fmt.Printf("  Cash:      %.4f → %.4f\n", action.Before.Cash, action.After.Cash)
	fmt.Printf("  Quantity:  %.6f → %.6f\n", action.Before.Quantity, action.After.Quantity)
	fmt.Printf("  PnL:       %.4f → %.4f (reward %+.4f)\n", action.Before.Pnl, action.After.Pnl, action.Reward())
	if action.After.Wager != nil {
		fmt.Printf("  Wager:     %.4f @ tick %d\n", action.After.Wager.Amount, action.After.Wager.PlacedTick)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}

// Close is a no-op for console log.
func (c *ConsoleLog) Close() error {
	c.logger.Info("closing-console-action-log")
	return nil
}
