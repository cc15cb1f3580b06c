package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mselser95/game-actions/internal/app"
	"github.com/mselser95/game-actions/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the action interface against the configured executor",
	Long: `Starts the action execution core, which will:
1. Subscribe to the game's state-update stream
2. Dispatch actions through the configured executor (visual, live, simulated)
3. Correlate each action with its confirming state delta
4. Track player state and persist confirmed actions to the action log

Use EXECUTOR_KIND to select the back-end.`,
	RunE: runApp,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runApp(cmd *cobra.Command, args []string) error {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
