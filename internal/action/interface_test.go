package action

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mselser95/game-actions/internal/monitor"
	"github.com/mselser95/game-actions/internal/testutil"
	"github.com/mselser95/game-actions/internal/tracker"
	"github.com/mselser95/game-actions/pkg/latency"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

type harness struct {
	iface    *Interface
	executor *testutil.FakeExecutor
	log      *testutil.MemoryLog
	events   chan *types.StateUpdateEvent
	cancel   context.CancelFunc
}

func newHarness(t *testing.T, timeout, sweep time.Duration) *harness {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	stats := latency.New(10)
	exec := &testutil.FakeExecutor{}
	log := &testutil.MemoryLog{}
	events := make(chan *types.StateUpdateEvent, 16)

	confMonitor := monitor.New(&monitor.Config{
		Timeout:       timeout,
		SweepInterval: sweep,
		Stats:         stats,
		Logger:        logger,
	})

	stateTracker := tracker.New(&tracker.Config{Log: log, Logger: logger})

	iface := New(&Config{
		Executor: exec,
		Monitor:  confMonitor,
		Tracker:  stateTracker,
		Stats:    stats,
		Events:   events,
		Logger:   logger,
	})

	ctx, cancel := context.WithCancel(context.Background())

	if err := confMonitor.Start(ctx); err != nil {
		cancel()
		t.Fatalf("start monitor: %v", err)
	}
	if err := iface.Start(ctx); err != nil {
		cancel()
		t.Fatalf("start interface: %v", err)
	}

	t.Cleanup(func() {
		_ = iface.Close()
		cancel()
		confMonitor.Wait()
	})

	return &harness{
		iface:    iface,
		executor: exec,
		log:      log,
		events:   events,
		cancel:   cancel,
	}
}

// feed sends an event through the loop and waits for it to be consumed.
func (h *harness) feed(ev types.StateUpdateEvent) {
	h.events <- &ev
	time.Sleep(20 * time.Millisecond)
}

func TestOpenConfirmedByStateDelta(t *testing.T) {
	h := newHarness(t, 2*time.Second, 50*time.Millisecond)

	h.feed(testutil.CreateTestEvent("g1", 1, 10, 5.0, 0))

	// Confirmation arrives while the caller is blocked: position jumps
	// 0 -> 0.01 and cash drops by roughly the stake.
	go func() {
		time.Sleep(60 * time.Millisecond)
		h.events <- &types.StateUpdateEvent{
			GameID:      "g1",
			Seq:         2,
			CurrentTick: 11,
			Cash:        4.0,
			Quantity:    0.01,
			ReceivedAt:  time.Now(),
		}
	}()

	result, err := h.iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if !result.Success {
		t.Fatal("expected confirmed action")
	}

	if result.Latency <= 0 {
		t.Errorf("expected positive latency, got %s", result.Latency)
	}

	if result.State.Cash != 4.0 || result.State.Quantity != 0.01 {
		t.Errorf("returned state not post-confirmation: cash=%.2f quantity=%.4f",
			result.State.Cash, result.State.Quantity)
	}

	if h.iface.LatencyStats().SampleCount != 1 {
		t.Errorf("expected 1 latency sample, got %d", h.iface.LatencyStats().SampleCount)
	}

	written := h.log.Written()
	if len(written) != 1 || !written[0].Result.Confirmed {
		t.Errorf("expected one confirmed persisted action, got %d", len(written))
	}
}

func TestCloseTimesOutWithoutMatchingDelta(t *testing.T) {
	h := newHarness(t, 100*time.Millisecond, 20*time.Millisecond)

	h.feed(testutil.CreateTestEvent("g1", 1, 10, 4.0, 0.01))

	// Only unrelated drift arrives; nothing resembling a close.
	go func() {
		time.Sleep(30 * time.Millisecond)
		h.events <- &types.StateUpdateEvent{
			GameID: "g1", Seq: 2, CurrentTick: 11,
			Cash: 4.0, Quantity: 0.01, Pnl: 0.01,
			ReceivedAt: time.Now(),
		}
	}()

	result, err := h.iface.ExecuteAction(context.Background(), types.ActionClose, types.ActionParams{Quantity: 0})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if result.Success {
		t.Fatal("expected unconfirmed result on timeout")
	}

	if result.Latency != 0 {
		t.Errorf("timed-out action must carry zero latency, got %s", result.Latency)
	}

	if h.iface.LatencyStats().SampleCount != 0 {
		t.Error("timeout must not pollute the latency window")
	}

	// The position is untouched; a later event would reconcile passively.
	if result.State.Quantity != 0.01 {
		t.Errorf("state mutated by unconfirmed close: quantity=%.4f", result.State.Quantity)
	}
}

func TestDuplicatePendingRejectedBeforeDispatch(t *testing.T) {
	h := newHarness(t, time.Minute, time.Second)

	h.feed(testutil.CreateTestEvent("g1", 1, 10, 5.0, 0))

	firstDone := make(chan types.ActionResult, 1)
	go func() {
		result, execErr := h.iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})
		if execErr == nil {
			firstDone <- result
		}
	}()

	// Wait for the first open to be dispatched and registered.
	deadline := time.Now().Add(time.Second)
	for h.executor.CallCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first open never dispatched")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	_, err := h.iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})

	var dup *types.DuplicatePendingError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicatePendingError, got %v", err)
	}

	// The rejection happens before any side effect.
	if got := h.executor.CallCount(); got != 1 {
		t.Errorf("executor invoked %d times, want 1", got)
	}

	// Confirm the first open so it completes normally.
	h.events <- &types.StateUpdateEvent{
		GameID: "g1", Seq: 2, CurrentTick: 11,
		Cash: 4.0, Quantity: 0.01,
		ReceivedAt: time.Now(),
	}

	select {
	case result := <-firstDone:
		if !result.Success {
			t.Error("first open should have confirmed")
		}
	case <-time.After(time.Second):
		t.Fatal("first open never completed")
	}
}

func TestSideWagerConfirmedThenPassivelyCleared(t *testing.T) {
	h := newHarness(t, 2*time.Second, 50*time.Millisecond)

	h.feed(testutil.CreateTestEvent("g1", 1, 10, 5.0, 0))

	go func() {
		time.Sleep(60 * time.Millisecond)
		ev := testutil.CreateTestWagerEvent("g1", 2, 11, 4.5, 0.5, 11)
		h.events <- &ev
	}()

	result, err := h.iface.ExecuteAction(context.Background(), types.ActionSideWager, types.ActionParams{Amount: 0.5})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if !result.Success {
		t.Fatal("expected confirmed wager")
	}

	if result.State.Wager == nil || result.State.Wager.Amount != 0.5 {
		t.Fatalf("expected wager 0.5 in state, got %+v", result.State.Wager)
	}

	// Settlement arrives from the stream alone: the wager vanishes and the
	// payout lands in cash with no further action on our side.
	h.feed(testutil.CreateTestEvent("g1", 3, 15, 5.4, 0))

	state := h.iface.StateSnapshot()
	if state.Wager != nil {
		t.Errorf("expected wager cleared after settlement, got %+v", state.Wager)
	}

	if state.Cash != 5.4 {
		t.Errorf("expected settled cash 5.4, got %.2f", state.Cash)
	}
}

func TestCloseStopsEventLoopPromptly(t *testing.T) {
	h := newHarness(t, time.Minute, time.Second)

	h.feed(testutil.CreateTestEvent("g1", 1, 10, 5.0, 0))

	// Close before anyone cancels the start context: the interface owns
	// its loop lifetime and must not wait on the caller.
	done := make(chan error, 1)
	go func() {
		done <- h.iface.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("close failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("close hung waiting for the event loop")
	}
}

// gatedExecutor blocks inside Execute until released, exposing the window
// between dispatch and registration.
type gatedExecutor struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedExecutor) Execute(typ types.ActionType, params types.ActionParams) (types.ExecutionRecord, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()

	g.entered <- struct{}{}
	<-g.release

	return types.ExecutionRecord{
		ActionID: fmt.Sprintf("gated-%d", n),
		Type:     typ,
		Params:   params,
		IssuedAt: time.Now(),
		Kind:     types.ExecutorSimulated,
	}, nil
}

func (g *gatedExecutor) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls
}

func (g *gatedExecutor) Close() error { return nil }

func TestConcurrentSameTypeDispatchesOnce(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	stats := latency.New(10)
	exec := &gatedExecutor{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	events := make(chan *types.StateUpdateEvent, 16)

	confMonitor := monitor.New(&monitor.Config{
		Timeout:       100 * time.Millisecond,
		SweepInterval: 20 * time.Millisecond,
		Stats:         stats,
		Logger:        logger,
	})
	stateTracker := tracker.New(&tracker.Config{Log: &testutil.MemoryLog{}, Logger: logger})

	iface := New(&Config{
		Executor: exec,
		Monitor:  confMonitor,
		Tracker:  stateTracker,
		Stats:    stats,
		Events:   events,
		Logger:   logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := confMonitor.Start(ctx); err != nil {
		t.Fatalf("start monitor: %v", err)
	}
	if err := iface.Start(ctx); err != nil {
		t.Fatalf("start interface: %v", err)
	}
	defer iface.Close()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})
	}()

	// The first call is parked inside the executor; its slot must already
	// be claimed.
	<-exec.entered

	_, err := iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})

	var dup *types.DuplicatePendingError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicatePendingError, got %v", err)
	}

	close(exec.release)
	<-firstDone

	if got := exec.callCount(); got != 1 {
		t.Errorf("executor dispatched %d times, want 1", got)
	}
}

func TestDispatchFailureReleasesSlot(t *testing.T) {
	h := newHarness(t, time.Second, 50*time.Millisecond)

	h.feed(testutil.CreateTestEvent("g1", 1, 10, 5.0, 0))

	h.executor.FailWith = &types.ExecutorError{
		Kind:   types.ExecutorSimulated,
		Type:   types.ActionOpen,
		Reason: "simulation engine unavailable",
	}

	_, err := h.iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})
	if err == nil {
		t.Fatal("expected dispatch failure")
	}

	// The failed dispatch must not leave the OPEN slot claimed.
	h.executor.FailWith = nil

	go func() {
		time.Sleep(30 * time.Millisecond)
		h.events <- &types.StateUpdateEvent{
			GameID:      "g1",
			Seq:         2,
			CurrentTick: 11,
			Cash:        4.0,
			Quantity:    0.01,
			ReceivedAt:  time.Now(),
		}
	}()

	result, err := h.iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})
	if err != nil {
		t.Fatalf("execute after failed dispatch: %v", err)
	}

	if !result.Success {
		t.Error("expected confirmed action after slot release")
	}
}

func TestDispatchFailureSurfacesExecutorError(t *testing.T) {
	h := newHarness(t, time.Second, 50*time.Millisecond)

	h.executor.FailWith = &types.ExecutorError{
		Kind:   types.ExecutorLive,
		Type:   types.ActionOpen,
		Reason: "bridge disconnected",
	}

	_, err := h.iface.ExecuteAction(context.Background(), types.ActionOpen, types.ActionParams{Amount: 1.0})

	var execErr *types.ExecutorError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutorError, got %v", err)
	}
}
