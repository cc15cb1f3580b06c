package monitor

import (
	"math"

	"github.com/mselser95/game-actions/pkg/types"
)

// The wire carries no correlation identifier, so confirmations are matched
// by expected effect: the state delta a successful action of each type must
// produce. Ambiguity between same-type actions is avoided by policy (at most
// one pending action per type), not resolved here. If the upstream protocol
// ever grows a real correlation id this file is the only thing to replace.

// quantityTolerance absorbs float drift when comparing a CLOSE residual or
// a wager amount against the requested value.
const quantityTolerance = 1e-9

// Match reports whether an incoming state-update event satisfies the
// expected effect of the pending action, given the player state observed
// before the event. Pure function, no side effects.
func Match(rec types.ExecutionRecord, before types.PlayerState, ev types.StateUpdateEvent) (*types.StateDelta, bool) {
	switch rec.Type {
	case types.ActionOpen:
		return matchOpen(before, ev)
	case types.ActionClose:
		return matchClose(rec.Params, before, ev)
	case types.ActionSideWager:
		return matchSideWager(rec.Params, before, ev)
	default:
		return nil, false
	}
}

// matchOpen: position quantity increases from its prior value and cash
// decreases (the stake left the balance).
func matchOpen(before types.PlayerState, ev types.StateUpdateEvent) (*types.StateDelta, bool) {
	if ev.Quantity <= before.Quantity || ev.Cash >= before.Cash {
		return nil, false
	}

	return newDelta(before, ev), true
}

// matchClose: position quantity decreases toward the requested residual and
// cash increases. A zero requested quantity means close everything, so the
// expected residual is zero.
func matchClose(params types.ActionParams, before types.PlayerState, ev types.StateUpdateEvent) (*types.StateDelta, bool) {
	if ev.Quantity >= before.Quantity || ev.Cash <= before.Cash {
		return nil, false
	}

	residual := 0.0
	if params.Quantity > 0 {
		residual = before.Quantity - params.Quantity
	}

	if math.Abs(ev.Quantity-residual) > quantityTolerance {
		return nil, false
	}

	return newDelta(before, ev), true
}

// matchSideWager: an active wager appears with the requested amount.
func matchSideWager(params types.ActionParams, before types.PlayerState, ev types.StateUpdateEvent) (*types.StateDelta, bool) {
	if ev.Wager == nil || before.Wager != nil {
		return nil, false
	}

	if math.Abs(ev.Wager.Amount-params.Amount) > quantityTolerance {
		return nil, false
	}

	delta := newDelta(before, ev)
	delta.WagerAmount = ev.Wager.Amount

	return delta, true
}

func newDelta(before types.PlayerState, ev types.StateUpdateEvent) *types.StateDelta {
	return &types.StateDelta{
		CashBefore:     before.Cash,
		CashAfter:      ev.Cash,
		QuantityBefore: before.Quantity,
		QuantityAfter:  ev.Quantity,
	}
}
