package testutil

import (
	"context"
	"sync"

	"github.com/mselser95/game-actions/internal/storage"
	"github.com/mselser95/game-actions/pkg/types"
)

// FakeExecutor records dispatched actions and can be scripted to fail.
type FakeExecutor struct {
	mu       sync.Mutex
	Calls    []types.ExecutionRecord
	FailWith error
	NextID   string
}

// Execute records the call and returns a fresh record, or the scripted error.
func (f *FakeExecutor) Execute(typ types.ActionType, params types.ActionParams) (types.ExecutionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return types.ExecutionRecord{}, f.FailWith
	}

	id := f.NextID
	if id == "" {
		id = "fake-action"
	}

	rec := CreateTestRecord(id, typ, params)
	f.Calls = append(f.Calls, rec)

	return rec, nil
}

// CallCount returns how many dispatches went out.
func (f *FakeExecutor) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.Calls)
}

// Close is a no-op.
func (f *FakeExecutor) Close() error {
	return nil
}

// MemoryLog is an in-memory ActionLog capturing persisted actions.
type MemoryLog struct {
	mu      sync.Mutex
	Actions []*storage.PersistedAction
}

// Write appends the action to the in-memory slice.
func (m *MemoryLog) Write(ctx context.Context, action *storage.PersistedAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Actions = append(m.Actions, action)

	return nil
}

// Written returns a copy of all captured actions.
func (m *MemoryLog) Written() []*storage.PersistedAction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*storage.PersistedAction, len(m.Actions))
	copy(out, m.Actions)

	return out
}

// Close is a no-op.
func (m *MemoryLog) Close() error {
	return nil
}
