package types

import "time"

// SideWager is an active side bet reported by the game.
type SideWager struct {
	Amount     float64 `json:"amount"`
	PlacedTick int64   `json:"placed_tick"`
}

// StateUpdateEvent is a normalized authoritative push from the game backend
// describing the player's balance, position, and wager state at one tick.
// Delivery is at-least-once; Seq together with GameID dedupes replays.
type StateUpdateEvent struct {
	GameID      string
	Seq         uint64
	CurrentTick int64
	Cash        float64
	Quantity    float64
	AverageCost float64
	Pnl         float64
	Wager       *SideWager
	ReceivedAt  time.Time
}

// PlayerState is the authoritative player snapshot maintained by the state
// tracker. Cash, Quantity, AverageCost, and Pnl are always exactly what the
// latest StateUpdateEvent reported; EntryTick is derived locally and only
// meaningful while Quantity is non-zero.
type PlayerState struct {
	Cash        float64    `json:"cash"`
	Quantity    float64    `json:"quantity"`
	AverageCost float64    `json:"average_cost"`
	Pnl         float64    `json:"cumulative_pnl"`
	Wager       *SideWager `json:"active_wager,omitempty"`
	EntryTick   int64      `json:"entry_tick,omitempty"`
	CurrentTick int64      `json:"current_tick"`
	GameID      string     `json:"game_id"`
}

// InPosition reports whether the player currently holds a position.
func (s PlayerState) InPosition() bool {
	return s.Quantity != 0
}

// TimeInPosition is the number of ticks the current position has been open,
// zero when flat.
func (s PlayerState) TimeInPosition() int64 {
	if !s.InPosition() {
		return 0
	}
	return s.CurrentTick - s.EntryTick
}

// Clone returns a deep copy safe to hand outside the tracker.
func (s PlayerState) Clone() PlayerState {
	out := s
	if s.Wager != nil {
		w := *s.Wager
		out.Wager = &w
	}
	return out
}
