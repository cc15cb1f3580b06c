package config

import (
	"testing"
	"time"

	"github.com/mselser95/game-actions/pkg/types"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ExecutorKind != types.ExecutorSimulated {
		t.Errorf("expected simulated executor default, got %s", cfg.ExecutorKind)
	}

	if cfg.ConfirmationTimeout != 2*time.Second {
		t.Errorf("expected 2s confirmation timeout, got %s", cfg.ConfirmationTimeout)
	}

	if cfg.SweepInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms sweep interval, got %s", cfg.SweepInterval)
	}

	if cfg.LatencyWindowSize != 100 {
		t.Errorf("expected latency window 100, got %d", cfg.LatencyWindowSize)
	}

	if cfg.LogMode != "console" {
		t.Errorf("expected console log mode default, got %s", cfg.LogMode)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("EXECUTOR_KIND", "visual")
	t.Setenv("CONFIRMATION_TIMEOUT", "5s")
	t.Setenv("SWEEP_INTERVAL", "500ms")
	t.Setenv("LATENCY_WINDOW_SIZE", "50")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ExecutorKind != types.ExecutorVisual {
		t.Errorf("expected visual executor, got %s", cfg.ExecutorKind)
	}

	if cfg.ConfirmationTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.ConfirmationTimeout)
	}

	if cfg.LatencyWindowSize != 50 {
		t.Errorf("expected window 50, got %d", cfg.LatencyWindowSize)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			HTTPPort:            "8080",
			ExecutorKind:        types.ExecutorSimulated,
			ConfirmationTimeout: 2 * time.Second,
			SweepInterval:       250 * time.Millisecond,
			LatencyWindowSize:   100,
			LogMode:             "console",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown executor kind",
			mutate:  func(c *Config) { c.ExecutorKind = "robotic" },
			wantErr: true,
		},
		{
			name: "live mode requires bridge url",
			mutate: func(c *Config) {
				c.ExecutorKind = types.ExecutorLive
				c.LiveBridgeURL = ""
			},
			wantErr: true,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.ConfirmationTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "sweep larger than timeout",
			mutate:  func(c *Config) { c.SweepInterval = 3 * time.Second },
			wantErr: true,
		},
		{
			name:    "non-positive latency window",
			mutate:  func(c *Config) { c.LatencyWindowSize = 0 },
			wantErr: true,
		},
		{
			name:    "unknown log mode",
			mutate:  func(c *Config) { c.LogMode = "kafka" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantErr bool
	}{
		{name: "default json", format: "", level: ""},
		{name: "console", format: "console", level: "debug"},
		{name: "json explicit", format: "json", level: "warn"},
		{name: "bad format", format: "logfmt", wantErr: true},
		{name: "bad level", level: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_FORMAT", tt.format)
			t.Setenv("LOG_LEVEL", tt.level)

			logger, err := NewLogger()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}

			logger.Debug("logger-smoke")
		})
	}
}
