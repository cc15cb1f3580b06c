package types

import (
	"errors"
	"fmt"
)

// ExecutorError means the dispatch mechanism itself could not complete and
// the action was never issued. It is fatal to the call and distinct from a
// confirmation timeout, which is returned as ordinary result data.
type ExecutorError struct {
	Kind   ExecutorKind
	Type   ActionType
	Reason string
	Err    error
}

func (e *ExecutorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s executor failed to dispatch %s: %s: %v", e.Kind, e.Type, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s executor failed to dispatch %s: %s", e.Kind, e.Type, e.Reason)
}

func (e *ExecutorError) Unwrap() error {
	return e.Err
}

// DuplicatePendingError rejects a registration while a same-type action is
// still in flight. Raised before any executor side effect occurs.
type DuplicatePendingError struct {
	Type      ActionType
	PendingID string
}

func (e *DuplicatePendingError) Error() string {
	return fmt.Sprintf("pending %s action already registered (id: %s)", e.Type, e.PendingID)
}

var (
	// ErrMonitorClosed is returned on register or wait after shutdown began.
	ErrMonitorClosed = errors.New("confirmation monitor closed")

	// ErrUnknownAction is returned when waiting on an action id that was
	// never registered.
	ErrUnknownAction = errors.New("unknown action id")
)
