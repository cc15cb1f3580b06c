// Package tracker derives the authoritative player state exclusively from
// state-update events. It never infers cash or position from a local echo
// of an issued action; a confirmed action only gets persisted, the balance
// truth always comes from the stream.
package tracker

import (
	"context"
	"sync"

	"github.com/mselser95/game-actions/internal/storage"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// Tracker is the position/balance/side-bet state machine.
type Tracker struct {
	mu    sync.RWMutex
	state types.PlayerState
	prev  types.PlayerState

	log    storage.ActionLog
	logger *zap.Logger
}

// Config holds tracker configuration.
type Config struct {
	Log    storage.ActionLog
	Logger *zap.Logger
}

// New creates a new state tracker.
func New(cfg *Config) *Tracker {
	return &Tracker{
		log:    cfg.Log,
		logger: cfg.Logger,
	}
}

// ApplyState replaces the player state wholesale from one accepted event.
// A change in game id is a game boundary: duration-derived fields reset
// while the reported balances are adopted as-is.
func (t *Tracker) ApplyState(ev types.StateUpdateEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.state

	next := types.PlayerState{
		Cash:        ev.Cash,
		Quantity:    ev.Quantity,
		AverageCost: ev.AverageCost,
		Pnl:         ev.Pnl,
		Wager:       ev.Wager,
		CurrentTick: ev.CurrentTick,
		GameID:      ev.GameID,
	}

	newGame := ev.GameID != before.GameID

	switch {
	case newGame && next.InPosition():
		// Carried into a new game with an open position: the earliest
		// tick we can attribute is the first one we observed.
		next.EntryTick = ev.CurrentTick
	case !newGame && !before.InPosition() && next.InPosition():
		// Position opened.
		next.EntryTick = ev.CurrentTick
		PositionOpensTotal.Inc()
		t.logger.Info("position-opened",
			zap.String("game-id", ev.GameID),
			zap.Int64("entry-tick", ev.CurrentTick),
			zap.Float64("quantity", ev.Quantity))
	case !newGame && before.InPosition() && next.InPosition():
		next.EntryTick = before.EntryTick
	case before.InPosition() && !next.InPosition():
		// Position closed; EntryTick stays zero on the new state.
		PositionClosesTotal.Inc()
		t.logger.Info("position-closed",
			zap.String("game-id", ev.GameID),
			zap.Int64("duration-ticks", before.TimeInPosition()),
			zap.Float64("pnl", ev.Pnl))
	}

	if newGame && before.GameID != "" {
		GameBoundariesTotal.Inc()
		t.logger.Info("game-boundary",
			zap.String("previous-game-id", before.GameID),
			zap.String("game-id", ev.GameID))
	}

	if before.Wager != nil && ev.Wager == nil {
		t.logger.Debug("wager-cleared",
			zap.String("game-id", ev.GameID),
			zap.Float64("amount", before.Wager.Amount))
	}

	t.prev = before
	t.state = next
	TimeInPosition.Set(float64(next.TimeInPosition()))
}

// ApplyConfirmation persists the terminal result of an action together with
// the player-state snapshots around it. The log is fire-and-forget and never
// blocks this path.
func (t *Tracker) ApplyConfirmation(rec types.ExecutionRecord, result types.ConfirmationResult) {
	t.mu.RLock()
	before := t.prev.Clone()
	after := t.state.Clone()
	t.mu.RUnlock()

	if !result.Confirmed {
		// Unconfirmed actions changed nothing we can attribute; the
		// snapshots bracket whatever the stream reported meanwhile.
		before = after
	}

	action := &storage.PersistedAction{
		Record: rec,
		Result: result,
		Before: before,
		After:  after,
	}

	err := t.log.Write(context.Background(), action)
	if err != nil {
		t.logger.Error("persist-confirmation-failed",
			zap.String("action-id", rec.ActionID),
			zap.Error(err))
		return
	}

	RewardObserved.Set(action.Reward())
}

// Snapshot returns a read-only copy of the current player state.
func (t *Tracker) Snapshot() types.PlayerState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.state.Clone()
}

// TimeInPosition is the number of ticks the current position has been open.
func (t *Tracker) TimeInPosition() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.state.TimeInPosition()
}

// LastReward is the cumulative-PnL delta across the most recent applied
// event pair. Exposed for training consumers; not interpreted here.
func (t *Tracker) LastReward() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.state.Pnl - t.prev.Pnl
}
