package testutil

import (
	"time"

	"github.com/mselser95/game-actions/pkg/types"
)

// CreateTestRecord creates an execution record with a fixed issuance time.
func CreateTestRecord(id string, typ types.ActionType, params types.ActionParams) types.ExecutionRecord {
	return types.ExecutionRecord{
		ActionID: id,
		Type:     typ,
		Params:   params,
		IssuedAt: time.Now(),
		Kind:     types.ExecutorSimulated,
	}
}

// CreateTestEvent creates a state-update event with the given balances.
func CreateTestEvent(gameID string, seq uint64, tick int64, cash, quantity float64) types.StateUpdateEvent {
	return types.StateUpdateEvent{
		GameID:      gameID,
		Seq:         seq,
		CurrentTick: tick,
		Cash:        cash,
		Quantity:    quantity,
		Pnl:         0,
		ReceivedAt:  time.Now(),
	}
}

// CreateTestWagerEvent creates a state-update event carrying an active wager.
func CreateTestWagerEvent(gameID string, seq uint64, tick int64, cash, amount float64, placedTick int64) types.StateUpdateEvent {
	ev := CreateTestEvent(gameID, seq, tick, cash, 0)
	ev.Wager = &types.SideWager{
		Amount:     amount,
		PlacedTick: placedTick,
	}
	return ev
}
