package stream

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mselser95/game-actions/pkg/types"
)

// stateFrame is the raw wire shape of a state-update push from the game
// backend. Everything we need is nested under player.
type stateFrame struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Seq    uint64 `json:"seq"`
	Tick   int64  `json:"tick"`
	Player *struct {
		Cash     float64 `json:"cash"`
		Position struct {
			Quantity float64 `json:"quantity"`
			AvgCost  float64 `json:"avgCost"`
		} `json:"position"`
		Pnl   float64 `json:"cumulativePnl"`
		Wager *struct {
			Amount     float64 `json:"amount"`
			PlacedTick int64   `json:"placedTick"`
		} `json:"sideBet"`
	} `json:"player"`
}

// frameTypeState is the only frame type normalized into events; everything
// else on the socket (round countdowns, chat, presence) is ignored.
const frameTypeState = "state"

// Normalize parses a raw frame into a StateUpdateEvent. A nil event with a
// nil error means the frame was a valid non-state message to skip. An error
// means the frame is malformed: the caller logs and drops it.
func Normalize(raw []byte, receivedAt time.Time) (*types.StateUpdateEvent, error) {
	var frame stateFrame
	err := json.Unmarshal(raw, &frame)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	if frame.Type != frameTypeState {
		return nil, nil
	}

	if frame.GameID == "" {
		return nil, fmt.Errorf("state frame missing gameId")
	}

	if frame.Player == nil {
		return nil, fmt.Errorf("state frame missing player")
	}

	ev := &types.StateUpdateEvent{
		GameID:      frame.GameID,
		Seq:         frame.Seq,
		CurrentTick: frame.Tick,
		Cash:        frame.Player.Cash,
		Quantity:    frame.Player.Position.Quantity,
		AverageCost: frame.Player.Position.AvgCost,
		Pnl:         frame.Player.Pnl,
		ReceivedAt:  receivedAt,
	}

	if frame.Player.Wager != nil {
		ev.Wager = &types.SideWager{
			Amount:     frame.Player.Wager.Amount,
			PlacedTick: frame.Player.Wager.PlacedTick,
		}
	}

	return ev, nil
}

// DedupKey identifies one delivery of a state update for at-least-once
// replay suppression.
func DedupKey(ev *types.StateUpdateEvent) string {
	return fmt.Sprintf("%s:%d", ev.GameID, ev.Seq)
}
