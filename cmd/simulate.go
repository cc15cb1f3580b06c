package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mselser95/game-actions/internal/app"
	"github.com/mselser95/game-actions/pkg/config"
	"github.com/mselser95/game-actions/pkg/latency"
	"github.com/mselser95/game-actions/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a zero-latency simulated session",
	Long: `Runs the whole pipeline against the built-in synthetic game engine:
actions are dispatched with zero latency, confirmed through the same
heuristic matcher used in live runs, and summarized at the end. This is the
training-mode entry point.`,
	RunE: runSimulation,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("rounds", "n", 10, "Number of open/close cycles to run")
	simulateCmd.Flags().Float64P("stake", "a", 1.0, "Cash amount per OPEN")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ExecutorKind = types.ExecutorSimulated

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	rounds, _ := cmd.Flags().GetInt("rounds")
	stake, _ := cmd.Flags().GetFloat64("stake")

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Start()
	if err != nil {
		return fmt.Errorf("start app: %w", err)
	}

	runSession(application, logger, rounds, stake, cfg.SimTickPeriod)

	stats := application.Actions().LatencyStats()
	state := application.Actions().StateSnapshot()

	err = application.Shutdown()
	if err != nil {
		return fmt.Errorf("shutdown app: %w", err)
	}

	fmt.Print(formatSessionSummary(rounds, stats, state))

	return nil
}

// runSession drives open/close cycles with an occasional side wager.
func runSession(application *app.App, logger *zap.Logger, rounds int, stake float64, tickPeriod time.Duration) {
	actions := application.Actions()
	ctx := context.Background()

	for i := 0; i < rounds; i++ {
		result, err := actions.ExecuteAction(ctx, types.ActionOpen, types.ActionParams{Amount: stake})
		if err != nil {
			logger.Warn("simulated-open-failed", zap.Int("round", i), zap.Error(err))
			continue
		}

		logger.Info("simulated-open",
			zap.Int("round", i),
			zap.Bool("success", result.Success),
			zap.Duration("latency", result.Latency))

		if i%3 == 0 {
			_, err = actions.ExecuteAction(ctx, types.ActionSideWager, types.ActionParams{Amount: stake / 10})
			if err != nil {
				logger.Debug("simulated-wager-skipped", zap.Int("round", i), zap.Error(err))
			}
		}

		// Let the position ride a few ticks before closing.
		time.Sleep(3 * tickPeriod)

		result, err = actions.ExecuteAction(ctx, types.ActionClose, types.ActionParams{})
		if err != nil {
			logger.Warn("simulated-close-failed", zap.Int("round", i), zap.Error(err))
			continue
		}

		logger.Info("simulated-close",
			zap.Int("round", i),
			zap.Bool("success", result.Success),
			zap.Float64("pnl", result.State.Pnl))
	}
}

// formatSessionSummary renders the end-of-session report.
func formatSessionSummary(rounds int, stats latency.Snapshot, state types.PlayerState) string {
	var b strings.Builder

	b.WriteString("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	b.WriteString("🏁 SIMULATED SESSION COMPLETE\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Rounds:       %d\n", rounds)
	fmt.Fprintf(&b, "Confirmations: %d samples\n", stats.SampleCount)
	fmt.Fprintf(&b, "Latency:      avg %.2fms  p50 %.2fms  p95 %.2fms\n", stats.AvgMs, stats.P50Ms, stats.P95Ms)
	fmt.Fprintf(&b, "Final cash:   %.4f\n", state.Cash)
	fmt.Fprintf(&b, "Final PnL:    %+.4f\n", state.Pnl)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	return b.String()
}
