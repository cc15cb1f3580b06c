// Package action is the single public entry point for issuing game actions.
// It composes executor, confirmation monitor, state tracker, and latency
// window: dispatch fire-and-forget, then wait for the out-of-band
// confirmation or its timeout, then hand the terminal result to the tracker.
package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mselser95/game-actions/internal/executor"
	"github.com/mselser95/game-actions/internal/monitor"
	"github.com/mselser95/game-actions/internal/tracker"
	"github.com/mselser95/game-actions/pkg/latency"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// Interface orchestrates action execution and confirmation.
type Interface struct {
	executor executor.ActionExecutor
	monitor  *monitor.Monitor
	tracker  *tracker.Tracker
	stats    *latency.Stats
	events   <-chan *types.StateUpdateEvent
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds orchestrator configuration.
type Config struct {
	Executor executor.ActionExecutor
	Monitor  *monitor.Monitor
	Tracker  *tracker.Tracker
	Stats    *latency.Stats
	Events   <-chan *types.StateUpdateEvent
	Logger   *zap.Logger
}

// New creates a new action interface. The interface owns its event-loop
// lifetime: Close stops the loop regardless of what the caller does with the
// context passed to Start.
func New(cfg *Config) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Interface{
		executor: cfg.Executor,
		monitor:  cfg.Monitor,
		tracker:  cfg.Tracker,
		stats:    cfg.Stats,
		events:   cfg.Events,
		logger:   cfg.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the single event-consuming loop. The tracker sees each
// event before the monitor so that a waiter released by a match always
// observes the post-confirmation state.
func (i *Interface) Start(ctx context.Context) error {
	i.logger.Info("action-interface-starting")

	// The caller's context also stops the loop, so either path ends it:
	// that context's cancellation or Close.
	context.AfterFunc(ctx, i.cancel)

	i.wg.Add(1)
	go i.eventLoop()

	return nil
}

func (i *Interface) eventLoop() {
	defer i.wg.Done()

	for {
		select {
		case <-i.ctx.Done():
			i.logger.Info("action-interface-stopping")
			return
		case ev, ok := <-i.events:
			if !ok {
				i.logger.Info("event-channel-closed")
				return
			}

			i.tracker.ApplyState(*ev)
			i.monitor.OnStateUpdate(*ev)
		}
	}
}

// ExecuteAction dispatches one action and blocks until it is confirmed,
// timed out, or cancelled. A timeout is not an error: it returns
// Success=false and zero latency, and a later state update passively
// reconciles the player state if the action actually landed. Timed-out
// actions are never auto-retried; retrying an ambiguous wagering action
// must be a deliberate caller decision.
func (i *Interface) ExecuteAction(ctx context.Context, typ types.ActionType, params types.ActionParams) (types.ActionResult, error) {
	start := time.Now()

	// Claim the per-type slot before any side effect. The claim is atomic
	// in the monitor, so of two concurrent same-type calls exactly one
	// reaches the executor; the other is rejected without a dispatch.
	err := i.monitor.Reserve(typ)
	if err != nil {
		ActionsTotal.WithLabelValues(string(typ), "rejected").Inc()
		return types.ActionResult{}, err
	}

	rec, err := i.executor.Execute(typ, params)
	if err != nil {
		i.monitor.Release(typ)
		ActionsTotal.WithLabelValues(string(typ), "dispatch_failed").Inc()
		return types.ActionResult{}, fmt.Errorf("execute %s: %w", typ, err)
	}

	err = i.monitor.Register(rec)
	if err != nil {
		ActionsTotal.WithLabelValues(string(typ), "rejected").Inc()
		return types.ActionResult{}, fmt.Errorf("register %s: %w", typ, err)
	}

	result, err := i.monitor.WaitForConfirmation(ctx, rec.ActionID)
	if err != nil {
		ActionsTotal.WithLabelValues(string(typ), "wait_aborted").Inc()
		return types.ActionResult{}, fmt.Errorf("wait for confirmation: %w", err)
	}

	i.tracker.ApplyConfirmation(rec, result)

	ActionsTotal.WithLabelValues(string(typ), string(result.Outcome)).Inc()
	ActionDurationSeconds.Observe(time.Since(start).Seconds())

	return types.ActionResult{
		ActionID: rec.ActionID,
		Success:  result.Confirmed,
		Latency:  result.Latency,
		State:    i.tracker.Snapshot(),
	}, nil
}

// LatencyStats returns the rolling-window latency summary.
func (i *Interface) LatencyStats() latency.Snapshot {
	return i.stats.Snapshot()
}

// StateSnapshot returns a read-only copy of the current player state.
func (i *Interface) StateSnapshot() types.PlayerState {
	return i.tracker.Snapshot()
}

// Close stops the event loop, shuts the monitor down force-cancelling every
// pending action and releasing all blocked waiters, then waits for the loop
// to exit.
func (i *Interface) Close() error {
	i.cancel()

	err := i.monitor.Close()

	i.wg.Wait()

	closeErr := i.executor.Close()
	if err == nil {
		err = closeErr
	}

	i.logger.Info("action-interface-closed")

	return err
}
