package app

import (
	"context"
	"fmt"

	"github.com/mselser95/game-actions/internal/action"
	"github.com/mselser95/game-actions/internal/executor"
	"github.com/mselser95/game-actions/internal/monitor"
	"github.com/mselser95/game-actions/internal/sim"
	"github.com/mselser95/game-actions/internal/storage"
	"github.com/mselser95/game-actions/internal/stream"
	"github.com/mselser95/game-actions/internal/tracker"
	"github.com/mselser95/game-actions/pkg/cache"
	"github.com/mselser95/game-actions/pkg/config"
	"github.com/mselser95/game-actions/pkg/healthprobe"
	"github.com/mselser95/game-actions/pkg/httpserver"
	"github.com/mselser95/game-actions/pkg/latency"
	"github.com/mselser95/game-actions/pkg/types"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	// Event source: the real stream for visual and live sessions, the
	// synthetic engine for simulated runs.
	var (
		source     stream.Source
		engine     *sim.Engine
		dedupCache cache.Cache
		err        error
	)

	if cfg.ExecutorKind == types.ExecutorSimulated {
		engine = setupSimEngine(cfg, logger)
		source = engine
	} else {
		dedupCache, err = setupDedupCache(logger)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("setup dedup cache: %w", err)
		}

		source = setupStreamConsumer(cfg, logger, dedupCache)
	}

	exec, err := setupExecutor(cfg, logger, engine)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup executor: %w", err)
	}

	stats := latency.New(cfg.LatencyWindowSize)

	confMonitor := monitor.New(&monitor.Config{
		Timeout:       cfg.ConfirmationTimeout,
		SweepInterval: cfg.SweepInterval,
		Stats:         stats,
		Logger:        logger,
	})

	actionLog, err := setupActionLog(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup action log: %w", err)
	}

	stateTracker := tracker.New(&tracker.Config{
		Log:    actionLog,
		Logger: logger,
	})

	actions := action.New(&action.Config{
		Executor: exec,
		Monitor:  confMonitor,
		Tracker:  stateTracker,
		Stats:    stats,
		Events:   source.Events(),
		Logger:   logger,
	})

	httpServer := setupHTTPServer(cfg, logger, healthChecker, actions)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		source:        source,
		confMonitor:   confMonitor,
		stateTracker:  stateTracker,
		actionLog:     actionLog,
		dedupCache:    dedupCache,
		actions:       actions,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupDedupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000, // 10x expected max items (10k recent frames)
		MaxCost:     10000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupStreamConsumer(cfg *config.Config, logger *zap.Logger, dedupCache cache.Cache) *stream.Consumer {
	return stream.NewConsumer(stream.Config{
		URL:                   cfg.StreamURL,
		DialTimeout:           cfg.StreamDialTimeout,
		PongTimeout:           cfg.StreamPongTimeout,
		PingInterval:          cfg.StreamPingInterval,
		ReconnectInitialDelay: cfg.StreamReconnectInitial,
		ReconnectMaxDelay:     cfg.StreamReconnectMax,
		ReconnectBackoffMult:  cfg.StreamReconnectBackoff,
		EventBufferSize:       cfg.StreamEventBufferSize,
		Dedup:                 dedupCache,
		DedupWindow:           cfg.StreamDedupWindow,
		Logger:                logger,
	})
}

func setupSimEngine(cfg *config.Config, logger *zap.Logger) *sim.Engine {
	return sim.New(&sim.Config{
		TickPeriod: cfg.SimTickPeriod,
		StartCash:  cfg.SimStartCash,
		Logger:     logger,
	})
}

func setupExecutor(cfg *config.Config, logger *zap.Logger, engine *sim.Engine) (executor.ActionExecutor, error) {
	execCfg := &executor.Config{
		Kind:            cfg.ExecutorKind,
		Logger:          logger,
		BridgeURL:       cfg.LiveBridgeURL,
		InputRatePerSec: cfg.LiveInputRatePerSec,
	}

	if engine != nil {
		execCfg.Commands = engine.Commands()
	}

	exec, err := executor.New(execCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s executor: %w", cfg.ExecutorKind, err)
	}

	return exec, nil
}

func setupActionLog(cfg *config.Config, logger *zap.Logger) (storage.ActionLog, error) {
	var backend storage.ActionLog

	if cfg.LogMode == "postgres" {
		pgLog, err := storage.NewPostgresLog(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSLMode,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres action log: %w", err)
		}
		backend = pgLog
	} else {
		backend = storage.NewConsoleLog(logger)
	}

	return storage.NewAsync(backend, cfg.LogBufferSize, logger), nil
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	actions *action.Interface,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		State:         actions,
		Latency:       actions,
	})
}
