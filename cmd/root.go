package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "game-actions",
	Short: "Action execution and confirmation core for a round-based trading game",
	Long: `game-actions drives a real-time round-based trading game through a
fire-and-forget action channel and correlates each issued action with the
out-of-band state update that confirms it.

Actions go out through one of three executors (visual, live, simulated);
confirmations are matched heuristically by expected state delta, bounded by
a timeout sweep, and fed into a rolling latency window. The authoritative
player state is always derived from the state-update stream, never from a
local echo of an issued action.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
