package app

import (
	"context"
	"sync"

	"github.com/mselser95/game-actions/internal/action"
	"github.com/mselser95/game-actions/internal/monitor"
	"github.com/mselser95/game-actions/internal/storage"
	"github.com/mselser95/game-actions/internal/stream"
	"github.com/mselser95/game-actions/internal/tracker"
	"github.com/mselser95/game-actions/pkg/cache"
	"github.com/mselser95/game-actions/pkg/config"
	"github.com/mselser95/game-actions/pkg/healthprobe"
	"github.com/mselser95/game-actions/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	source        stream.Source
	confMonitor   *monitor.Monitor
	stateTracker  *tracker.Tracker
	actionLog     storage.ActionLog
	dedupCache    cache.Cache
	actions       *action.Interface
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Actions exposes the action interface for embedding callers such as the
// simulate command.
func (a *App) Actions() *action.Interface {
	return a.actions
}
