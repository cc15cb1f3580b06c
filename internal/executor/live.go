package executor

import (
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const liveDialTimeout = 10 * time.Second

// Live drives the real remote game surface through an automation bridge:
// each action becomes one command frame on a websocket. The bridge presses
// the button and forgets; confirmation comes back on the state stream.
type Live struct {
	url     string
	logger  *zap.Logger
	limiter *rate.Limiter

	mu   sync.Mutex
	conn *websocket.Conn
}

// LiveConfig holds live executor configuration.
type LiveConfig struct {
	BridgeURL       string
	InputRatePerSec float64
	Logger          *zap.Logger
}

// inputCommand is the wire frame sent to the automation bridge.
type inputCommand struct {
	Action   string  `json:"action"`
	Amount   float64 `json:"amount,omitempty"`
	Quantity float64 `json:"quantity,omitempty"`
	IssuedAt int64   `json:"issued_at_ms"`
}

// NewLive creates a live executor and connects to the automation bridge.
func NewLive(cfg *LiveConfig) (*Live, error) {
	ratePerSec := cfg.InputRatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 4.0
	}

	l := &Live{
		url:     cfg.BridgeURL,
		logger:  cfg.Logger,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}

	err := l.connect()
	if err != nil {
		return nil, fmt.Errorf("connect automation bridge: %w", err)
	}

	return l, nil
}

func (l *Live) connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: liveDialTimeout,
	}

	conn, _, err := dialer.Dial(l.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", l.url, err)
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	l.logger.Info("live-executor-connected", zap.String("bridge-url", l.url))

	return nil
}

// Execute sends one command frame to the bridge. The rate limiter check is
// non-blocking: exceeding the game UI's input rate is a dispatch failure
// the caller must back off from, not something to queue behind.
func (l *Live) Execute(typ types.ActionType, params types.ActionParams) (types.ExecutionRecord, error) {
	err := validateParams(typ, params)
	if err != nil {
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorLive)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorLive,
			Type:   typ,
			Reason: "invalid parameters",
			Err:    err,
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorLive)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorLive,
			Type:   typ,
			Reason: "bridge not connected",
		}
	}

	// Token spend comes after the connection check: a call that dispatches
	// nothing must not starve the next real dispatch.
	if !l.limiter.Allow() {
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorLive)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorLive,
			Type:   typ,
			Reason: "input rate exceeded",
		}
	}

	rec := newRecord(types.ExecutorLive, typ, params)

	frame, err := json.Marshal(inputCommand{
		Action:   string(typ),
		Amount:   params.Amount,
		Quantity: params.Quantity,
		IssuedAt: rec.IssuedAt.UnixMilli(),
	})
	if err != nil {
		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorLive)).Inc()
		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorLive,
			Type:   typ,
			Reason: "encode command",
			Err:    err,
		}
	}

	err = l.conn.WriteMessage(websocket.TextMessage, frame)
	if err != nil {
		// Drop the broken connection; the next call reports unavailable
		// rather than retrying a wagering action on its own.
		_ = l.conn.Close()
		l.conn = nil

		DispatchErrorsTotal.WithLabelValues(string(types.ExecutorLive)).Inc()
		l.logger.Error("bridge-write-failed", zap.Error(err))

		return types.ExecutionRecord{}, &types.ExecutorError{
			Kind:   types.ExecutorLive,
			Type:   typ,
			Reason: "bridge write failed",
			Err:    err,
		}
	}

	DispatchesTotal.WithLabelValues(string(types.ExecutorLive), string(typ)).Inc()

	l.logger.Info("live-action-dispatched",
		zap.String("action-id", rec.ActionID),
		zap.String("action-type", string(typ)))

	return rec, nil
}

// Reconnect re-dials the automation bridge after a dropped connection.
func (l *Live) Reconnect() error {
	l.mu.Lock()
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
	l.mu.Unlock()

	return l.connect()
}

// Close closes the bridge connection.
func (l *Live) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}

	err := l.conn.Close()
	l.conn = nil
	l.logger.Info("live-executor-closed")

	return err
}
