package types

import "time"

// ActionType identifies the kind of game action being issued.
type ActionType string

const (
	ActionOpen      ActionType = "OPEN"
	ActionClose     ActionType = "CLOSE"
	ActionSideWager ActionType = "SIDE_WAGER"
)

// ExecutorKind selects which execution back-end dispatches actions.
type ExecutorKind string

const (
	ExecutorVisual    ExecutorKind = "visual"
	ExecutorLive      ExecutorKind = "live"
	ExecutorSimulated ExecutorKind = "simulated"
)

// ActionParams carries the caller-supplied parameters for an action.
// Amount is the cash stake for OPEN and SIDE_WAGER. Quantity is the
// position quantity a CLOSE should sell; zero means close everything.
type ActionParams struct {
	Amount   float64
	Quantity float64
}

// ExecutionRecord describes a single dispatched action. It is created by
// the executor at the moment the physical or simulated effect goes out and
// is immutable afterwards.
type ExecutionRecord struct {
	ActionID string
	Type     ActionType
	Params   ActionParams
	IssuedAt time.Time
	Kind     ExecutorKind
}

// StateDelta captures the observed state change that matched a pending
// action. Kept on the ConfirmationResult for logging and persistence.
type StateDelta struct {
	CashBefore     float64
	CashAfter      float64
	QuantityBefore float64
	QuantityAfter  float64
	WagerAmount    float64
}

// ConfirmationOutcome is the terminal state of a pending action.
type ConfirmationOutcome string

const (
	OutcomeMatched   ConfirmationOutcome = "matched"
	OutcomeTimedOut  ConfirmationOutcome = "timed_out"
	OutcomeCancelled ConfirmationOutcome = "cancelled"
)

// ConfirmationResult is produced exactly once per pending action.
// Latency and ConfirmedAt are only meaningful when Confirmed is true.
type ConfirmationResult struct {
	ActionID    string
	Outcome     ConfirmationOutcome
	Confirmed   bool
	IssuedAt    time.Time
	ConfirmedAt time.Time
	Latency     time.Duration
	Delta       *StateDelta
}

// ActionResult is returned to the caller of ExecuteAction. A false Success
// with a nil error means the action was dispatched but never confirmed
// within the deadline; Latency is zero in that case.
type ActionResult struct {
	ActionID string
	Success  bool
	Latency  time.Duration
	State    PlayerState
}
