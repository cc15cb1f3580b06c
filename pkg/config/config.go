package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mselser95/game-actions/pkg/types"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Execution
	ExecutorKind        types.ExecutorKind
	LiveBridgeURL       string
	LiveInputRatePerSec float64

	// Confirmation
	ConfirmationTimeout time.Duration
	SweepInterval       time.Duration

	// Latency
	LatencyWindowSize int

	// State-update stream
	StreamURL               string
	StreamDialTimeout       time.Duration
	StreamPongTimeout       time.Duration
	StreamPingInterval      time.Duration
	StreamReconnectInitial  time.Duration
	StreamReconnectMax      time.Duration
	StreamReconnectBackoff  float64
	StreamEventBufferSize   int
	StreamDedupWindow       time.Duration

	// Simulation
	SimTickPeriod time.Duration
	SimStartCash  float64

	// Action log
	LogMode         string // "postgres" or "console"
	LogBufferSize   int
	PostgresHost    string
	PostgresPort    string
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	PostgresSSLMode string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Execution defaults
		ExecutorKind:        types.ExecutorKind(getEnvOrDefault("EXECUTOR_KIND", "simulated")),
		LiveBridgeURL:       getEnvOrDefault("LIVE_BRIDGE_URL", "ws://localhost:9222/input"),
		LiveInputRatePerSec: getFloat64OrDefault("LIVE_INPUT_RATE_PER_SEC", 4.0),

		// Confirmation defaults
		ConfirmationTimeout: getDurationOrDefault("CONFIRMATION_TIMEOUT", 2*time.Second),
		SweepInterval:       getDurationOrDefault("SWEEP_INTERVAL", 250*time.Millisecond),

		// Latency defaults
		LatencyWindowSize: getIntOrDefault("LATENCY_WINDOW_SIZE", 100),

		// Stream defaults
		StreamURL:              getEnvOrDefault("STREAM_URL", "ws://localhost:9223/state"),
		StreamDialTimeout:      getDurationOrDefault("STREAM_DIAL_TIMEOUT", 10*time.Second),
		StreamPongTimeout:      getDurationOrDefault("STREAM_PONG_TIMEOUT", 15*time.Second),
		StreamPingInterval:     getDurationOrDefault("STREAM_PING_INTERVAL", 10*time.Second),
		StreamReconnectInitial: getDurationOrDefault("STREAM_RECONNECT_INITIAL_DELAY", 1*time.Second),
		StreamReconnectMax:     getDurationOrDefault("STREAM_RECONNECT_MAX_DELAY", 30*time.Second),
		StreamReconnectBackoff: getFloat64OrDefault("STREAM_RECONNECT_BACKOFF_MULTIPLIER", 2.0),
		StreamEventBufferSize:  getIntOrDefault("STREAM_EVENT_BUFFER_SIZE", 1000),
		StreamDedupWindow:      getDurationOrDefault("STREAM_DEDUP_WINDOW", 1*time.Minute),

		// Simulation defaults
		SimTickPeriod: getDurationOrDefault("SIM_TICK_PERIOD", 250*time.Millisecond),
		SimStartCash:  getFloat64OrDefault("SIM_START_CASH", 100.0),

		// Action log defaults
		LogMode:         getEnvOrDefault("ACTION_LOG_MODE", "console"),
		LogBufferSize:   getIntOrDefault("ACTION_LOG_BUFFER_SIZE", 256),
		PostgresHost:    getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser:    getEnvOrDefault("POSTGRES_USER", "gameactions"),
		PostgresPass:    getEnvOrDefault("POSTGRES_PASSWORD", "gameactions123"),
		PostgresDB:      getEnvOrDefault("POSTGRES_DB", "game_actions"),
		PostgresSSLMode: getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	switch c.ExecutorKind {
	case types.ExecutorVisual, types.ExecutorLive, types.ExecutorSimulated:
	default:
		return fmt.Errorf("EXECUTOR_KIND must be 'visual', 'live', or 'simulated', got %q", c.ExecutorKind)
	}

	if c.ExecutorKind == types.ExecutorLive && c.LiveBridgeURL == "" {
		return fmt.Errorf("LIVE_BRIDGE_URL cannot be empty in live mode")
	}

	if c.ExecutorKind != types.ExecutorSimulated && c.StreamURL == "" {
		return fmt.Errorf("STREAM_URL cannot be empty")
	}

	if c.ConfirmationTimeout <= 0 {
		return fmt.Errorf("CONFIRMATION_TIMEOUT must be positive, got %s", c.ConfirmationTimeout)
	}

	if c.SweepInterval <= 0 || c.SweepInterval > c.ConfirmationTimeout {
		return fmt.Errorf("SWEEP_INTERVAL must be positive and no larger than CONFIRMATION_TIMEOUT, got %s", c.SweepInterval)
	}

	if c.LatencyWindowSize <= 0 {
		return fmt.Errorf("LATENCY_WINDOW_SIZE must be positive, got %d", c.LatencyWindowSize)
	}

	if c.LogMode != "postgres" && c.LogMode != "console" {
		return fmt.Errorf("ACTION_LOG_MODE must be 'postgres' or 'console', got %q", c.LogMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
