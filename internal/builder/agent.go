package builder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/futig/resomate/internal/config"
	"github.com/futig/resomate/internal/integration/remote"
	pkglogger "github.com/futig/resomate/internal/pkg/logger"
	"github.com/futig/resomate/internal/pkg/validator"
	"github.com/futig/resomate/internal/repository"
	"github.com/futig/resomate/internal/usecase/generation"
	"github.com/futig/resomate/internal/usecase/offline"
	"go.uber.org/zap"
)

// Agent is the delegate-side runtime: local cache, sync reconciler and generation cascade
type Agent struct {
	Config      *config.AgentConfig
	Coordinator *offline.Coordinator
	Monitor     *offline.Monitor
	Remote      *remote.Connector
	Generator   *generation.GenerationUsecase
	Logger      *zap.Logger

	db *sql.DB
}

// BuildAgent loads the agent configuration for environment and opens the local cache
func BuildAgent(environment string) (*Agent, error) {
	cfg, err := config.LoadAgentConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	db, err := repository.OpenCacheDB(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	logger.Debug("Local cache opened", zap.String("path", cfg.CachePath))

	remoteConnector := remote.NewConnector(cfg.RemoteCfg, logger)
	monitor := offline.NewMonitor(remoteConnector, cfg.SyncCfg.ProbeInterval, cfg.SyncCfg.StatusTTL, logger)

	coordinator := offline.NewCoordinator(
		repository.NewCacheSQLite(db),
		logger,
		offline.WithConnectivity(monitor),
	)

	llmConnector := setupLLMConnector(cfg.LLMConnectorCfg, cfg.EnableMocks, logger)
	generator := generation.NewUsecase(cfg.LLMConnectorCfg, llmConnector, validator.New(), logger)

	return &Agent{
		Config:      cfg,
		Coordinator: coordinator,
		Monitor:     monitor,
		Remote:      remoteConnector,
		Generator:   generator,
		Logger:      logger,
		db:          db,
	}, nil
}

// RunSync sweeps pending records after every reconnect, the first successful probe included, until ctx ends
func (a *Agent) RunSync(ctx context.Context) error {
	return a.Monitor.Run(pkglogger.WithLogger(ctx, a.Logger), a.reconcile)
}

func (a *Agent) reconcile(ctx context.Context) {
	report, err := a.Coordinator.ReconcileOnReconnect(ctx, a.Remote)
	if err != nil {
		a.Logger.Error("Reconcile failed", zap.Error(err))
		return
	}
	a.Logger.Info("Reconcile finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
	)
}

// Close releases the local cache and flushes the logger
func (a *Agent) Close() error {
	_ = a.Logger.Sync()
	return a.db.Close()
}
