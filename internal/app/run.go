package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	err := a.Start()
	if err != nil {
		return err
	}

	return a.waitForShutdown()
}

// Start starts all components without blocking. Callers that drive actions
// themselves (the simulate command) use this directly.
func (a *App) Start() error {
	a.logger.Info("application-starting",
		zap.String("executor-kind", string(a.cfg.ExecutorKind)),
		zap.Duration("confirmation-timeout", a.cfg.ConfirmationTimeout),
		zap.String("log-level", a.cfg.LogLevel))

	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start event source
	err := a.source.Start(a.ctx)
	if err != nil {
		return fmt.Errorf("start event source: %w", err)
	}

	// Start confirmation monitor sweep
	err = a.confMonitor.Start(a.ctx)
	if err != nil {
		return fmt.Errorf("start confirmation monitor: %w", err)
	}

	// Start action interface event loop
	err = a.actions.Start(a.ctx)
	if err != nil {
		return fmt.Errorf("start action interface: %w", err)
	}

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
