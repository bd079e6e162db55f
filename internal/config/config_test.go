package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestLoadAgentConfig_Defaults(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("REMOTE_SERVICE_URL", "http://localhost:8080")
	t.Setenv("CACHE_PATH", cachePath)

	cfg, err := LoadAgentConfig("unit-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CachePath != cachePath {
		t.Errorf("expected cache path %s, got %s", cachePath, cfg.CachePath)
	}
	if cfg.Environment != "unit-test" {
		t.Errorf("expected environment unit-test, got %s", cfg.Environment)
	}

	llm := cfg.LLMConnectorCfg
	if llm.PrimaryRetry.Attempts != 3 || llm.PrimaryRetry.Delay != time.Second {
		t.Errorf("unexpected primary retry %+v", llm.PrimaryRetry)
	}
	if llm.SecondaryRetry.Attempts != 2 || llm.SecondaryRetry.Delay != 1500*time.Millisecond {
		t.Errorf("unexpected secondary retry %+v", llm.SecondaryRetry)
	}
	if llm.PrimaryModel != "gpt-4.1-nano" || llm.SecondaryModel != "gpt-4o-mini" {
		t.Errorf("unexpected models %s, %s", llm.PrimaryModel, llm.SecondaryModel)
	}

	if cfg.SyncCfg.ProbeInterval != 10*time.Second || cfg.SyncCfg.StatusTTL != 5*time.Second {
		t.Errorf("unexpected sync config %+v", cfg.SyncCfg)
	}
	if cfg.RemoteCfg.DocumentsEndpoint != "/v1/documents" {
		t.Errorf("unexpected documents endpoint %s", cfg.RemoteCfg.DocumentsEndpoint)
	}
}

func TestLoadAgentConfig_Overrides(t *testing.T) {
	t.Setenv("REMOTE_SERVICE_URL", "http://localhost:8080")
	t.Setenv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.db"))
	t.Setenv("LLM_SECONDARY_RETRY_ATTEMPTS", "4")
	t.Setenv("LLM_SECONDARY_RETRY_DELAY", "250ms")
	t.Setenv("REMOTE_TOKEN", "secret")

	cfg, err := LoadAgentConfig("unit-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLMConnectorCfg.SecondaryRetry.Attempts != 4 || cfg.LLMConnectorCfg.SecondaryRetry.Delay != 250*time.Millisecond {
		t.Errorf("override ignored: %+v", cfg.LLMConnectorCfg.SecondaryRetry)
	}
	if cfg.LLMConnectorCfg.PrimaryRetry.Attempts != 3 {
		t.Errorf("primary tier must keep its default, got %d", cfg.LLMConnectorCfg.PrimaryRetry.Attempts)
	}
	if cfg.RemoteCfg.Token != "secret" {
		t.Errorf("expected remote token, got %q", cfg.RemoteCfg.Token)
	}
}

func TestLoadAgentConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing remote url",
			env:     map[string]string{},
			wantMsg: "REMOTE_SERVICE_URL is required",
		},
		{
			name:    "too many attempts",
			env:     map[string]string{"REMOTE_SERVICE_URL": "http://x", "LLM_PRIMARY_RETRY_ATTEMPTS": "11"},
			wantMsg: "LLM_PRIMARY_RETRY_ATTEMPTS must be between 1 and 10",
		},
		{
			name:    "status ttl longer than probe interval",
			env:     map[string]string{"REMOTE_SERVICE_URL": "http://x", "SYNC_STATUS_TTL": "1m"},
			wantMsg: "SYNC_STATUS_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REMOTE_SERVICE_URL", "")
			t.Setenv("CACHE_PATH", filepath.Join(t.TempDir(), "cache.db"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadAgentConfig("unit-test")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %v", tt.wantMsg, err)
			}
		})
	}
}

func TestServerConfig_AuthTokensAndValidation(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/resomate")
	t.Setenv("AUTH_TOKENS", "tok-a:delegate-a,tok-b:delegate-b")
	t.Setenv("ENABLE_MOCKS", "true")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	applyRetryDefaults(&cfg.LLMConnectorCfg)

	if got := cfg.AuthTokens["tok-b"]; got != "delegate-b" {
		t.Errorf("expected delegate-b, got %q", got)
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	cfg.EnableMocks = false
	if err := validateConfig(cfg); err == nil || !strings.Contains(err.Error(), "LLM_SERVICE_URL") {
		t.Errorf("expected LLM_SERVICE_URL error, got %v", err)
	}

	cfg.DBMinConns = cfg.DBMaxConns + 1
	if err := validateConfig(cfg); err == nil || !strings.Contains(err.Error(), "DB_MIN_CONNS") {
		t.Errorf("expected DB_MIN_CONNS error, got %v", err)
	}
}

func TestGetEnvFile(t *testing.T) {
	tests := map[string]string{
		"prod":    ".env.prod",
		"dev":     ".env.local",
		"staging": ".env.staging",
	}
	for in, want := range tests {
		if got := getEnvFile(in); got != want {
			t.Errorf("getEnvFile(%q) = %q, want %q", in, got, want)
		}
	}
}
