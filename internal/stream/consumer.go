// Package stream consumes the push-based state-update subscription from the
// game backend, normalizes raw frames into StateUpdateEvents, and suppresses
// at-least-once redeliveries. Malformed frames are logged and dropped; they
// never crash the consuming task.
package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mselser95/game-actions/pkg/cache"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// Source delivers normalized state-update events. Implemented by the live
// websocket consumer and by the simulation engine.
type Source interface {
	Events() <-chan *types.StateUpdateEvent
	Start(ctx context.Context) error
	Close() error
}

// Consumer manages the websocket subscription to the state-update stream.
type Consumer struct {
	url          string
	conn         *websocket.Conn
	logger       *zap.Logger
	reconnectMgr *ReconnectManager
	config       Config
	events       chan *types.StateUpdateEvent
	dedup        cache.Cache
	dedupWindow  time.Duration

	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	connected    atomic.Bool
	lastPongTime atomic.Int64
}

// Config holds stream consumer configuration.
type Config struct {
	URL                   string
	DialTimeout           time.Duration
	PongTimeout           time.Duration
	PingInterval          time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration
	ReconnectBackoffMult  float64
	EventBufferSize       int
	Dedup                 cache.Cache
	DedupWindow           time.Duration
	Logger                *zap.Logger
}

// NewConsumer creates a new state-update stream consumer.
func NewConsumer(cfg Config) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())

	reconnectCfg := ReconnectConfig{
		InitialDelay:      cfg.ReconnectInitialDelay,
		MaxDelay:          cfg.ReconnectMaxDelay,
		BackoffMultiplier: cfg.ReconnectBackoffMult,
		JitterPercent:     0.2,
	}

	return &Consumer{
		url:          cfg.URL,
		logger:       cfg.Logger,
		reconnectMgr: NewReconnectManager(reconnectCfg, cfg.Logger),
		config:       cfg,
		events:       make(chan *types.StateUpdateEvent, cfg.EventBufferSize),
		dedup:        cfg.Dedup,
		dedupWindow:  cfg.DedupWindow,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Events returns the channel of normalized, deduplicated events.
func (c *Consumer) Events() <-chan *types.StateUpdateEvent {
	return c.events
}

// Start connects and launches the read, ping, and reconnect loops.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("stream-consumer-starting", zap.String("url", c.url))

	err := c.connect(c.ctx)
	if err != nil {
		return fmt.Errorf("initial connection: %w", err)
	}

	c.wg.Add(3)
	go c.readLoop()
	go c.pingLoop()
	go c.reconnectLoop()

	return nil
}

// connect establishes a websocket connection to the stream endpoint.
func (c *Consumer) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.DialTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	conn.SetPongHandler(func(string) error {
		c.lastPongTime.Store(time.Now().Unix())
		return nil
	})

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.connected.Store(true)
	c.lastPongTime.Store(time.Now().Unix())
	ActiveConnections.Set(1)

	c.logger.Info("stream-connected")

	return nil
}

// readLoop reads frames from the websocket until the connection drops.
func (c *Consumer) readLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("read-error", zap.Error(err))
			c.connected.Store(false)
			ActiveConnections.Set(0)
			return
		}

		c.handleFrame(message)
	}
}

// handleFrame normalizes, dedupes, and forwards one raw frame.
func (c *Consumer) handleFrame(raw []byte) {
	FramesReceivedTotal.Inc()

	ev, err := Normalize(raw, time.Now())
	if err != nil {
		MalformedFramesTotal.Inc()
		preview := string(raw)
		if len(preview) > 100 {
			preview = preview[:100]
		}
		c.logger.Warn("malformed-state-update-dropped",
			zap.Error(err),
			zap.String("preview", preview))
		return
	}

	if ev == nil {
		// Valid non-state frame (heartbeat, round countdown, chat).
		return
	}

	if c.dedup != nil {
		key := DedupKey(ev)
		_, seen := c.dedup.Get(key)
		if seen {
			DuplicateFramesTotal.Inc()
			c.logger.Debug("duplicate-state-update-dropped",
				zap.String("key", key))
			return
		}
		c.dedup.Set(key, struct{}{}, c.dedupWindow)
	}

	select {
	case c.events <- ev:
		EventsDeliveredTotal.Inc()
	default:
		EventsDroppedTotal.Inc()
		c.logger.Error("event-channel-full-dropping-update",
			zap.String("game-id", ev.GameID),
			zap.Uint64("seq", ev.Seq),
			zap.Int("buffer-size", cap(c.events)))
	}
}

// pingLoop sends periodic PING messages and watches pong freshness.
func (c *Consumer) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.connected.Load() {
				continue
			}

			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()

			if conn == nil {
				continue
			}

			err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second))
			if err != nil {
				c.logger.Warn("ping-error", zap.Error(err))
			}

			lastPong := time.Unix(c.lastPongTime.Load(), 0)
			if time.Since(lastPong) > c.config.PongTimeout {
				c.logger.Warn("pong-timeout-marking-disconnected",
					zap.Time("last-pong", lastPong))
				c.connected.Store(false)
				ActiveConnections.Set(0)
			}
		}
	}
}

// reconnectLoop re-establishes the subscription when the connection drops.
func (c *Consumer) reconnectLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		if c.connected.Load() {
			time.Sleep(time.Second)
			continue
		}

		c.logger.Warn("connection-lost-initiating-reconnect")

		err := c.reconnectMgr.Reconnect(c.ctx, c.connect)
		if err != nil {
			if err == context.Canceled {
				return
			}
			c.logger.Error("reconnection-failed", zap.Error(err))
			continue
		}

		c.logger.Info("reconnection-complete-restarting-read-loop")

		c.wg.Add(1)
		go c.readLoop()
	}
}

// Close stops all loops and closes the connection.
func (c *Consumer) Close() error {
	c.logger.Info("stream-consumer-closing")

	c.cancel()

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
	close(c.events)

	c.logger.Info("stream-consumer-closed")

	return nil
}
