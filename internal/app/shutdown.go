package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application. Every pending action is
// force-resolved cancelled and no confirmation waiter is left hanging.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Cancel context to signal all components
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	// Close action interface: cancels pending confirmations, releases
	// waiters, stops the event loop.
	err = a.actions.Close()
	if err != nil {
		a.logger.Error("action-interface-close-error", zap.Error(err))
	}

	// Wait for the monitor sweep loop to exit
	a.confMonitor.Wait()

	// Close event source
	err = a.source.Close()
	if err != nil {
		a.logger.Error("event-source-close-error", zap.Error(err))
	}

	// Flush and close the action log
	err = a.actionLog.Close()
	if err != nil {
		a.logger.Error("action-log-close-error", zap.Error(err))
	}

	if a.dedupCache != nil {
		a.dedupCache.Close()
	}

	// Wait for all goroutines
	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")

	return nil
}
