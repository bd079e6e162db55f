package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/resomate/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the server configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Generation service configuration
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Caller identities, "token:user_id" pairs separated by commas
	AuthTokens map[string]string `env:"AUTH_TOKENS" envSeparator:"," envKeyValSeparator:":"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// AgentConfig holds the configuration of the delegate-side CLI and its sync agent
type AgentConfig struct {
	// Local cache configuration
	CachePath string `env:"CACHE_PATH"`

	// Remote store configuration
	RemoteCfg RemoteStoreConfig `envPrefix:"REMOTE_"`

	// Sync configuration
	SyncCfg SyncConfig `envPrefix:"SYNC_"`

	// Generation service configuration
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
	EnableMocks bool   `env:"ENABLE_MOCKS" envDefault:"false"`

	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	PrimaryModel   string               `env:"PRIMARY_MODEL" envDefault:"gpt-4.1-nano"`
	SecondaryModel string               `env:"SECONDARY_MODEL" envDefault:"gpt-4o-mini"`
	PrimaryRetry   pkgRetry.RetryConfig `envPrefix:"PRIMARY_RETRY_"`
	SecondaryRetry pkgRetry.RetryConfig `envPrefix:"SECONDARY_RETRY_"`
}

type RemoteStoreConfig struct {
	HTTPClientConfig
	DocumentsEndpoint string `env:"DOCUMENTS_ENDPOINT" envDefault:"/v1/documents"`
	HealthEndpoint    string `env:"HEALTH_ENDPOINT" envDefault:"/health"`
}

type SyncConfig struct {
	ProbeInterval time.Duration `env:"PROBE_INTERVAL" envDefault:"10s"`
	StatusTTL     time.Duration `env:"STATUS_TTL" envDefault:"5s"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	loadEnvFile(*envFlag)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag
	applyRetryDefaults(&cfg.LLMConnectorCfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadAgentConfig loads the CLI configuration for the given environment name
func LoadAgentConfig(environment string) (*AgentConfig, error) {
	loadEnvFile(environment)

	cfg := &AgentConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	applyRetryDefaults(&cfg.LLMConnectorCfg)

	if cfg.CachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.CachePath = filepath.Join(home, ".resomate", "cache.db")
	}

	if err := validateAgentConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(environment string) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}
}

// applyRetryDefaults fills the tier retry settings the environment left empty.
// Primary: 3 attempts from 1s. Secondary: 2 attempts from 1.5s.
func applyRetryDefaults(cfg *LLMConnectorConfig) {
	if cfg.PrimaryRetry.Attempts == 0 {
		cfg.PrimaryRetry.Attempts = 3
	}
	if cfg.PrimaryRetry.Delay == 0 {
		cfg.PrimaryRetry.Delay = time.Second
	}
	if cfg.SecondaryRetry.Attempts == 0 {
		cfg.SecondaryRetry.Attempts = 2
	}
	if cfg.SecondaryRetry.Delay == 0 {
		cfg.SecondaryRetry.Delay = 1500 * time.Millisecond
	}
}

func validateConfig(cfg *Config) error {
	var errors []string

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if !cfg.EnableMocks && cfg.LLMConnectorCfg.Url == "" {
		errors = append(errors, "LLM_SERVICE_URL is required unless ENABLE_MOCKS is set")
	}

	errors = append(errors, validateLLMConfig(&cfg.LLMConnectorCfg)...)

	return joinErrors(errors)
}

func validateAgentConfig(cfg *AgentConfig) error {
	var errors []string

	if cfg.RemoteCfg.Url == "" {
		errors = append(errors, "REMOTE_SERVICE_URL is required")
	}

	if cfg.SyncCfg.ProbeInterval <= 0 {
		errors = append(errors, fmt.Sprintf("SYNC_PROBE_INTERVAL must be positive, got %s", cfg.SyncCfg.ProbeInterval))
	}

	if cfg.SyncCfg.StatusTTL <= 0 || cfg.SyncCfg.StatusTTL > cfg.SyncCfg.ProbeInterval {
		errors = append(errors, fmt.Sprintf("SYNC_STATUS_TTL must be positive and not exceed SYNC_PROBE_INTERVAL, got %s", cfg.SyncCfg.StatusTTL))
	}

	errors = append(errors, validateLLMConfig(&cfg.LLMConnectorCfg)...)

	return joinErrors(errors)
}

func validateLLMConfig(cfg *LLMConnectorConfig) []string {
	var errors []string

	tiers := map[string]pkgRetry.RetryConfig{
		"LLM_PRIMARY_RETRY":   cfg.PrimaryRetry,
		"LLM_SECONDARY_RETRY": cfg.SecondaryRetry,
	}
	for prefix, rc := range tiers {
		if rc.Attempts < 1 || rc.Attempts > 10 {
			errors = append(errors, fmt.Sprintf("%s_ATTEMPTS must be between 1 and 10, got %d", prefix, rc.Attempts))
		}
		if rc.Delay <= 0 {
			errors = append(errors, fmt.Sprintf("%s_DELAY must be positive, got %s", prefix, rc.Delay))
		}
	}

	if cfg.PrimaryModel == "" || cfg.SecondaryModel == "" {
		errors = append(errors, "LLM_PRIMARY_MODEL and LLM_SECONDARY_MODEL must not be empty")
	}

	return errors
}

func joinErrors(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
