package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/resomate/internal/api"
	documentapi "github.com/futig/resomate/internal/api/document"
	generationapi "github.com/futig/resomate/internal/api/generation"
	"github.com/futig/resomate/internal/config"
	"github.com/futig/resomate/internal/integration/llm"
	pkglogger "github.com/futig/resomate/internal/pkg/logger"
	"github.com/futig/resomate/internal/pkg/validator"
	"github.com/futig/resomate/internal/repository"
	"github.com/futig/resomate/internal/usecase/document"
	"github.com/futig/resomate/internal/usecase/generation"
	"go.uber.org/zap"
)

// Build wires the server: Postgres document store, generation cascade and HTTP API
func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	documentRepo := repository.NewDocumentPostgres(db)

	llmConnector := setupLLMConnector(cfg.LLMConnectorCfg, cfg.EnableMocks, logger)

	v := validator.New()

	documentUC := document.NewUsecase(documentRepo, v, logger)
	generationUC := generation.NewUsecase(cfg.LLMConnectorCfg, llmConnector, v, logger)
	logger.Info("Use cases initialized")

	if len(cfg.AuthTokens) == 0 {
		logger.Warn("AUTH_TOKENS is empty, every /v1 request will be rejected")
	}

	router := api.SetupRouter(
		documentapi.NewHandler(documentUC),
		generationapi.NewHandler(generationUC),
		cfg.AuthTokens,
		logger,
	)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// generation requests may wait out every tier's backoff
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

func setupLogger(level, environment string) (*zap.Logger, error) {
	development := environment != "prod" && environment != "production"
	return pkglogger.New(level, development)
}

func setupLLMConnector(cfg config.LLMConnectorConfig, mocks bool, logger *zap.Logger) generation.LLMConnector {
	if mocks {
		logger.Info("Using mock connector for the generation service")
		return llm.NewMockConnector(logger)
	}
	logger.Info("Using generation service", zap.String("url", cfg.Url))
	return llm.NewConnector(cfg, logger)
}
