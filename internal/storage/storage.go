// Package storage persists confirmed actions to the external durable log.
// Writes are fire-and-forget and must never block the confirmation path, so
// every backend is wrapped in an AsyncLog that drains a bounded buffer on a
// background goroutine and drops (with a metric) rather than block.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// PersistedAction is one appended record: the issued action, its terminal
// confirmation result, and the player-state snapshots around it. The reward
// exposed to training consumers is After.Pnl - Before.Pnl.
type PersistedAction struct {
	Record   types.ExecutionRecord
	Result   types.ConfirmationResult
	Before   types.PlayerState
	After    types.PlayerState
	LoggedAt time.Time
}

// Reward is the cumulative-PnL delta across this action.
func (p *PersistedAction) Reward() float64 {
	return p.After.Pnl - p.Before.Pnl
}

// ActionLog is the interface for the external durable append-only log.
type ActionLog interface {
	// Write appends one confirmed-action record.
	Write(ctx context.Context, action *PersistedAction) error

	// Close closes the log.
	Close() error
}

const writeTimeout = 5 * time.Second

// AsyncLog decouples log writes from the caller with a bounded buffer.
type AsyncLog struct {
	inner  ActionLog
	buffer chan *PersistedAction
	logger *zap.Logger
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewAsync wraps a log backend with a non-blocking buffered writer.
func NewAsync(inner ActionLog, bufferSize int, logger *zap.Logger) *AsyncLog {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	a := &AsyncLog{
		inner:  inner,
		buffer: make(chan *PersistedAction, bufferSize),
		logger: logger,
	}

	a.wg.Add(1)
	go a.drain()

	return a
}

// Write enqueues the record without blocking. When the buffer is full the
// record is dropped and counted; losing a log record is preferable to
// stalling the confirmation critical path.
func (a *AsyncLog) Write(_ context.Context, action *PersistedAction) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}

	if action.LoggedAt.IsZero() {
		action.LoggedAt = time.Now()
	}

	select {
	case a.buffer <- action:
	default:
		WritesDroppedTotal.Inc()
		a.logger.Warn("action-log-buffer-full-dropping-record",
			zap.String("action-id", action.Record.ActionID),
			zap.Int("buffer-size", cap(a.buffer)))
	}

	return nil
}

func (a *AsyncLog) drain() {
	defer a.wg.Done()

	for action := range a.buffer {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := a.inner.Write(ctx, action)
		cancel()

		if err != nil {
			WriteErrorsTotal.Inc()
			a.logger.Error("action-log-write-failed",
				zap.String("action-id", action.Record.ActionID),
				zap.Error(err))
			continue
		}

		WritesTotal.Inc()
	}
}

// Close stops accepting records, flushes the buffer, then closes the backend.
func (a *AsyncLog) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.buffer)
	a.mu.Unlock()

	a.wg.Wait()

	return a.inner.Close()
}
