// Package monitor correlates issued actions with the out-of-band state
// updates that confirm them, bounds the wait with a timeout sweep, and feeds
// confirmed round-trip latencies into the rolling latency window.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/mselser95/game-actions/pkg/latency"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// DefaultTimeout bounds how long a pending action may wait for confirmation.
const DefaultTimeout = 2 * time.Second

// DefaultSweepInterval matches the game's own tick period. One periodic
// sweep resolves all expired actions instead of one timer per action.
const DefaultSweepInterval = 250 * time.Millisecond

// pendingAction lives in the monitor from registration until a waiter
// collects its terminal result. done is buffered so the event-consuming
// goroutine never blocks on a slow or absent waiter.
type pendingAction struct {
	record       types.ExecutionRecord
	registeredAt time.Time
	deadline     time.Time
	resolved     bool
	done         chan types.ConfirmationResult
}

// Monitor owns the pending-action table. It is the only component holding
// shared mutable state; all access goes through one mutex with critical
// sections bounded to register, match, and sweep operations.
type Monitor struct {
	mu      sync.Mutex
	actions map[string]*pendingAction
	byType  map[types.ActionType]string
	last    types.PlayerState
	closed  bool

	timeout       time.Duration
	sweepInterval time.Duration
	stats         *latency.Stats
	logger        *zap.Logger

	ctx context.Context
	wg  sync.WaitGroup
}

// Config holds monitor configuration.
type Config struct {
	Timeout       time.Duration
	SweepInterval time.Duration
	Stats         *latency.Stats
	Logger        *zap.Logger
}

// New creates a new confirmation monitor.
func New(cfg *Config) *Monitor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}

	return &Monitor{
		actions:       make(map[string]*pendingAction),
		byType:        make(map[types.ActionType]string),
		timeout:       timeout,
		sweepInterval: sweep,
		stats:         cfg.Stats,
		logger:        cfg.Logger,
	}
}

// Start launches the periodic timeout sweep.
func (m *Monitor) Start(ctx context.Context) error {
	m.ctx = ctx
	m.logger.Info("monitor-starting",
		zap.Duration("timeout", m.timeout),
		zap.Duration("sweep-interval", m.sweepInterval))

	m.wg.Add(1)
	go m.sweepLoop()

	return nil
}

// HasPending reports whether an action of the given type is still awaiting
// confirmation, and the id of that action when one is registered. A slot
// that is reserved but not yet registered reports true with an empty id.
func (m *Monitor) HasPending(typ types.ActionType) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byType[typ]
	return id, ok
}

// Reserve atomically claims the per-type slot ahead of dispatch, so the
// duplicate rejection happens before any executor side effect. A successful
// reservation must be completed with Register, or returned with Release if
// dispatch fails.
func (m *Monitor) Reserve(typ types.ActionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrMonitorClosed
	}

	if pendingID, ok := m.byType[typ]; ok {
		RegistrationsRejectedTotal.Inc()
		return &types.DuplicatePendingError{Type: typ, PendingID: pendingID}
	}

	// Placeholder id; Register fills in the real one.
	m.byType[typ] = ""

	return nil
}

// Release frees a reservation that never became a registered action.
// Registered actions are untouched; they resolve through match, timeout, or
// Close.
func (m *Monitor) Release(typ types.ActionType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byType[typ]; ok && id == "" {
		delete(m.byType, typ)
	}
}

// Register adds an issued action to the pending table, completing a prior
// Reserve when one exists. It fails fast with DuplicatePendingError when a
// same-type action is already in flight; the caller must resolve the
// in-flight action before issuing another.
func (m *Monitor) Register(rec types.ExecutionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrMonitorClosed
	}

	if pendingID, ok := m.byType[rec.Type]; ok && pendingID != "" {
		RegistrationsRejectedTotal.Inc()
		return &types.DuplicatePendingError{Type: rec.Type, PendingID: pendingID}
	}

	now := time.Now()
	m.actions[rec.ActionID] = &pendingAction{
		record:       rec,
		registeredAt: now,
		deadline:     now.Add(m.timeout),
		done:         make(chan types.ConfirmationResult, 1),
	}
	m.byType[rec.Type] = rec.ActionID

	PendingActions.Inc()

	m.logger.Debug("action-registered",
		zap.String("action-id", rec.ActionID),
		zap.String("action-type", string(rec.Type)),
		zap.Time("deadline", m.actions[rec.ActionID].deadline))

	return nil
}

// WaitForConfirmation blocks until the action reaches a terminal state or
// the context ends. This is the only suspension point in the system; the
// event-consuming goroutine resolves waiters without ever blocking itself.
func (m *Monitor) WaitForConfirmation(ctx context.Context, actionID string) (types.ConfirmationResult, error) {
	m.mu.Lock()
	p, ok := m.actions[actionID]
	m.mu.Unlock()

	if !ok {
		return types.ConfirmationResult{}, types.ErrUnknownAction
	}

	select {
	case result := <-p.done:
		m.mu.Lock()
		delete(m.actions, actionID)
		m.mu.Unlock()

		return result, nil
	case <-ctx.Done():
		// The pending entry stays registered; the sweep resolves it,
		// frees the per-type slot, and collects the abandoned entry.
		return types.ConfirmationResult{}, ctx.Err()
	}
}

// OnStateUpdate applies the matcher to every registered action against the
// delta between the previously observed state and this event, then adopts
// the event as the new baseline. Must never block: result delivery goes
// through buffered channels.
func (m *Monitor) OnStateUpdate(ev types.StateUpdateEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.byType {
		p := m.actions[id]
		if p == nil || p.resolved {
			continue
		}

		delta, ok := Match(p.record, m.last, ev)
		if !ok {
			continue
		}

		confirmedAt := ev.ReceivedAt
		if confirmedAt.IsZero() {
			confirmedAt = time.Now()
		}

		m.resolveLocked(p, types.ConfirmationResult{
			ActionID:    p.record.ActionID,
			Outcome:     types.OutcomeMatched,
			Confirmed:   true,
			IssuedAt:    p.record.IssuedAt,
			ConfirmedAt: confirmedAt,
			Latency:     confirmedAt.Sub(p.record.IssuedAt),
			Delta:       delta,
		})
	}

	m.last = playerStateFromEvent(ev)
}

// sweepLoop periodically times out expired actions. Interval granularity is
// the game tick period, so a timeout may fire up to one sweep late.
func (m *Monitor) sweepLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Info("monitor-stopping")
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Monitor) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.byType {
		p := m.actions[id]
		if p == nil || p.resolved || now.Before(p.deadline) {
			continue
		}

		m.resolveLocked(p, types.ConfirmationResult{
			ActionID: p.record.ActionID,
			Outcome:  types.OutcomeTimedOut,
			IssuedAt: p.record.IssuedAt,
		})
	}

	// Resolved entries are normally removed when the waiter consumes the
	// result. A waiter whose context was cancelled never comes back, so
	// anything still resolved past its deadline is abandoned and collected
	// here; the table stays bounded over long sessions.
	for id, p := range m.actions {
		if p.resolved && now.After(p.deadline) {
			delete(m.actions, id)
		}
	}
}

// Close force-resolves every registered action as cancelled and releases
// all blocked waiters. No waiter is left hanging past shutdown.
func (m *Monitor) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true

	for _, id := range m.byType {
		p := m.actions[id]
		if p == nil || p.resolved {
			continue
		}

		m.resolveLocked(p, types.ConfirmationResult{
			ActionID: p.record.ActionID,
			Outcome:  types.OutcomeCancelled,
			IssuedAt: p.record.IssuedAt,
		})
	}
	m.mu.Unlock()

	m.logger.Info("monitor-closed")

	return nil
}

// Wait blocks until the sweep loop has exited. Call after the context given
// to Start is cancelled.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// resolveLocked moves a pending action to its terminal state exactly once.
// Caller holds m.mu.
func (m *Monitor) resolveLocked(p *pendingAction, result types.ConfirmationResult) {
	if p.resolved {
		return
	}
	p.resolved = true

	delete(m.byType, p.record.Type)
	PendingActions.Dec()
	ResolutionsTotal.WithLabelValues(string(p.record.Type), string(result.Outcome)).Inc()

	if result.Confirmed {
		if m.stats != nil {
			m.stats.Record(result.Latency)
		}

		m.logger.Info("action-confirmed",
			zap.String("action-id", p.record.ActionID),
			zap.String("action-type", string(p.record.Type)),
			zap.Duration("latency", result.Latency))
	} else {
		m.logger.Warn("action-unconfirmed",
			zap.String("action-id", p.record.ActionID),
			zap.String("action-type", string(p.record.Type)),
			zap.String("outcome", string(result.Outcome)),
			zap.Duration("age", time.Since(p.registeredAt)))
	}

	// Buffered channel: delivery never blocks the resolving goroutine.
	p.done <- result
}

func playerStateFromEvent(ev types.StateUpdateEvent) types.PlayerState {
	return types.PlayerState{
		Cash:        ev.Cash,
		Quantity:    ev.Quantity,
		AverageCost: ev.AverageCost,
		Pnl:         ev.Pnl,
		Wager:       ev.Wager,
		CurrentTick: ev.CurrentTick,
		GameID:      ev.GameID,
	}
}
