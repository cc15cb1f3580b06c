package sim

import (
	"context"
	"testing"
	"time"

	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger, _ = zap.NewDevelopment()
	}
	if cfg.TickPeriod == 0 {
		cfg.TickPeriod = 10 * time.Millisecond
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	e := New(cfg)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}

	t.Cleanup(func() { _ = e.Close() })

	return e
}

// nextEvent reads one event or fails the test.
func nextEvent(t *testing.T, e *Engine) *types.StateUpdateEvent {
	t.Helper()

	select {
	case ev := <-e.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event from engine")
		return nil
	}
}

func TestEngineEmitsBaselineSnapshot(t *testing.T) {
	e := newTestEngine(t, &Config{StartCash: 100.0, TickPeriod: time.Hour})

	ev := nextEvent(t, e)
	if ev.Cash != 100.0 || ev.Quantity != 0 {
		t.Errorf("unexpected baseline: cash=%.2f quantity=%.4f", ev.Cash, ev.Quantity)
	}

	if ev.GameID == "" {
		t.Error("expected a game id")
	}
}

func TestEngineAppliesOpenAndClose(t *testing.T) {
	e := newTestEngine(t, &Config{StartCash: 100.0, TickPeriod: time.Hour})
	nextEvent(t, e)

	e.Commands() <- types.ExecutionRecord{
		ActionID: "open-1",
		Type:     types.ActionOpen,
		Params:   types.ActionParams{Amount: 10.0},
		IssuedAt: time.Now(),
	}

	ev := nextEvent(t, e)
	if ev.Cash != 90.0 {
		t.Errorf("expected cash 90 after open, got %.2f", ev.Cash)
	}
	if ev.Quantity <= 0 {
		t.Errorf("expected a position after open, got %.4f", ev.Quantity)
	}
	if ev.AverageCost <= 0 {
		t.Errorf("expected an average cost, got %.4f", ev.AverageCost)
	}

	e.Commands() <- types.ExecutionRecord{
		ActionID: "close-1",
		Type:     types.ActionClose,
		Params:   types.ActionParams{Quantity: 0},
		IssuedAt: time.Now(),
	}

	ev = nextEvent(t, e)
	if ev.Quantity != 0 {
		t.Errorf("expected flat position after full close, got %.4f", ev.Quantity)
	}

	// Price never moved (no ticks), so the round trip is cash-neutral.
	if ev.Cash != 100.0 {
		t.Errorf("expected cash restored to 100, got %.2f", ev.Cash)
	}
}

func TestEngineAppliesSideWager(t *testing.T) {
	e := newTestEngine(t, &Config{StartCash: 100.0, TickPeriod: time.Hour})
	nextEvent(t, e)

	e.Commands() <- types.ExecutionRecord{
		ActionID: "wager-1",
		Type:     types.ActionSideWager,
		Params:   types.ActionParams{Amount: 5.0},
		IssuedAt: time.Now(),
	}

	ev := nextEvent(t, e)
	if ev.Wager == nil || ev.Wager.Amount != 5.0 {
		t.Fatalf("expected wager 5.0 in state, got %+v", ev.Wager)
	}
	if ev.Cash != 95.0 {
		t.Errorf("expected cash 95 after wager, got %.2f", ev.Cash)
	}

	// A second wager while one is active is silently ignored.
	e.Commands() <- types.ExecutionRecord{
		ActionID: "wager-2",
		Type:     types.ActionSideWager,
		Params:   types.ActionParams{Amount: 5.0},
		IssuedAt: time.Now(),
	}

	ev = nextEvent(t, e)
	if ev.Cash != 95.0 {
		t.Errorf("second wager changed cash to %.2f", ev.Cash)
	}
}

func TestEngineRollsOverRounds(t *testing.T) {
	e := newTestEngine(t, &Config{
		StartCash:  100.0,
		TickPeriod: time.Millisecond,
		RoundTicks: 5,
	})

	first := nextEvent(t, e)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-e.Events():
			if ev.GameID != first.GameID {
				// Rollover liquidates everything.
				if ev.Quantity != 0 {
					t.Errorf("position carried across rounds: %.4f", ev.Quantity)
				}
				if ev.Wager != nil {
					t.Errorf("wager carried across rounds: %+v", ev.Wager)
				}
				return
			}
		case <-deadline:
			t.Fatal("round never rolled over")
		}
	}
}
