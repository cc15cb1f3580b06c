// Package sim is a self-contained round-based game engine used for training
// runs. It consumes executor commands, applies them to a synthetic player
// state with zero latency, and publishes the same state-update events the
// real backend would push, so the whole confirmation pipeline is exercised
// unchanged.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// DefaultRoundTicks is how many ticks one synthetic game round lasts.
const DefaultRoundTicks = 100

// Engine is the synthetic game.
type Engine struct {
	commands chan types.ExecutionRecord
	events   chan *types.StateUpdateEvent

	tickPeriod time.Duration
	roundTicks int64
	logger     *zap.Logger

	// game state, only touched by the run loop
	gameID string
	seq    uint64
	tick   int64
	price  float64
	cash   float64
	qty    float64
	avg    float64
	pnl    float64
	wager  *types.SideWager
	rng    *rand.Rand

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds engine configuration.
type Config struct {
	TickPeriod time.Duration
	StartCash  float64
	RoundTicks int64
	Seed       int64
	Logger     *zap.Logger
}

// New creates a new simulation engine.
func New(cfg *Config) *Engine {
	roundTicks := cfg.RoundTicks
	if roundTicks <= 0 {
		roundTicks = DefaultRoundTicks
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		commands:   make(chan types.ExecutionRecord, 16),
		events:     make(chan *types.StateUpdateEvent, 256),
		tickPeriod: cfg.TickPeriod,
		roundTicks: roundTicks,
		logger:     cfg.Logger,
		gameID:     uuid.NewString(),
		price:      1.0,
		cash:       cfg.StartCash,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Commands is the channel the simulated executor dispatches into.
func (e *Engine) Commands() chan<- types.ExecutionRecord {
	return e.commands
}

// Events returns the synthetic state-update stream.
func (e *Engine) Events() <-chan *types.StateUpdateEvent {
	return e.events
}

// Start launches the game loop.
func (e *Engine) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.logger.Info("sim-engine-starting",
		zap.Duration("tick-period", e.tickPeriod),
		zap.Int64("round-ticks", e.roundTicks),
		zap.Float64("start-cash", e.cash))

	e.wg.Add(1)
	go e.run(runCtx)

	return nil
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickPeriod)
	defer ticker.Stop()

	// Initial snapshot so consumers have a baseline before any action.
	e.emit()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("sim-engine-stopping")
			return
		case rec := <-e.commands:
			e.apply(rec)
			e.emit()
		case <-ticker.C:
			e.advance()
			e.emit()
		}
	}
}

// advance moves the game one tick: random-walk the price and roll the game
// over when the round ends.
func (e *Engine) advance() {
	e.tick++
	e.price *= 1.0 + (e.rng.Float64()-0.5)*0.02
	if e.price < 0.01 {
		e.price = 0.01
	}

	if e.tick%e.roundTicks == 0 {
		e.endRound()
	}
}

// endRound liquidates any open position, settles the wager, and starts a
// new game with a fresh identifier.
func (e *Engine) endRound() {
	if e.qty > 0 {
		e.closePosition(e.qty)
	}

	if e.wager != nil {
		// Even-money coin flip settlement.
		if e.rng.Float64() < 0.5 {
			e.cash += 2 * e.wager.Amount
			e.pnl += e.wager.Amount
		} else {
			e.pnl -= e.wager.Amount
		}
		e.wager = nil
	}

	previous := e.gameID
	e.gameID = uuid.NewString()
	e.price = 1.0

	e.logger.Debug("sim-round-ended",
		zap.String("previous-game-id", previous),
		zap.String("game-id", e.gameID),
		zap.Float64("pnl", e.pnl))
}

// apply executes one command against the synthetic state.
func (e *Engine) apply(rec types.ExecutionRecord) {
	switch rec.Type {
	case types.ActionOpen:
		amount := rec.Params.Amount
		if amount > e.cash {
			amount = e.cash
		}
		if amount <= 0 {
			return
		}

		bought := amount / e.price
		e.avg = (e.avg*e.qty + amount) / (e.qty + bought)
		e.qty += bought
		e.cash -= amount

	case types.ActionClose:
		qty := rec.Params.Quantity
		if qty <= 0 || qty > e.qty {
			qty = e.qty
		}
		if qty <= 0 {
			return
		}

		e.closePosition(qty)

	case types.ActionSideWager:
		if e.wager != nil || rec.Params.Amount > e.cash {
			return
		}

		e.cash -= rec.Params.Amount
		e.wager = &types.SideWager{
			Amount:     rec.Params.Amount,
			PlacedTick: e.tick,
		}
	}
}

func (e *Engine) closePosition(qty float64) {
	proceeds := qty * e.price
	e.pnl += (e.price - e.avg) * qty
	e.cash += proceeds
	e.qty -= qty
	if e.qty <= 1e-12 {
		e.qty = 0
		e.avg = 0
	}
}

// emit publishes the current state as one event. Non-blocking like the real
// transport: a full buffer drops the update and a later one reconciles.
func (e *Engine) emit() {
	e.seq++

	var wager *types.SideWager
	if e.wager != nil {
		w := *e.wager
		wager = &w
	}

	ev := &types.StateUpdateEvent{
		GameID:      e.gameID,
		Seq:         e.seq,
		CurrentTick: e.tick,
		Cash:        e.cash,
		Quantity:    e.qty,
		AverageCost: e.avg,
		Pnl:         e.pnl,
		Wager:       wager,
		ReceivedAt:  time.Now(),
	}

	select {
	case e.events <- ev:
	default:
		e.logger.Warn("sim-event-buffer-full-dropping-update",
			zap.Uint64("seq", e.seq))
	}
}

// Close stops the game loop and closes the event stream.
func (e *Engine) Close() error {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	close(e.events)

	e.logger.Info("sim-engine-closed")

	return nil
}
