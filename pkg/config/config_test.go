package config

import (
	"testing"
	"time"
)

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig().Build()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("expected read timeout %v, got %v", DefaultReadTimeout, cfg.Server.ReadTimeout)
	}
	if cfg.Provider.BaseURL == "" {
		t.Error("expected provider base URL to be set")
	}
	if len(cfg.Models.Allowed) == 0 {
		t.Error("expected at least one allowed model, got none")
	}
}

func TestConfigBuilder_WithListenAddress(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("0.0.0.0:9090").
		Build()

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Server.ListenAddress)
	}
}

func TestConfigBuilder_WithModels(t *testing.T) {
	cfg := NewTestConfig().
		WithModels("gpt-4o", "gpt-4o", "gpt-4o-mini").
		Build()

	if cfg.Models.Default != "gpt-4o" {
		t.Errorf("expected default model %q, got %q", "gpt-4o", cfg.Models.Default)
	}
	if len(cfg.Models.Allowed) != 2 {
		t.Errorf("expected 2 allowed models, got %d", len(cfg.Models.Allowed))
	}
}

func TestConfigBuilder_WithCache(t *testing.T) {
	cfg := NewTestConfig().
		WithCache(true, 30*time.Minute, 500).
		Build()

	if !cfg.Cache.Enabled {
		t.Error("expected cache to be enabled")
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected ttl %v, got %v", 30*time.Minute, cfg.Cache.TTL)
	}
	if cfg.Cache.Capacity != 500 {
		t.Errorf("expected capacity %d, got %d", 500, cfg.Cache.Capacity)
	}
}

func TestConfigBuilder_WithSpace(t *testing.T) {
	cfg := NewTestConfig().
		WithSpace("ENG", "alice", "bob").
		Build()

	if cfg.Auth.Mode != "space_list" {
		t.Errorf("expected auth mode %q, got %q", "space_list", cfg.Auth.Mode)
	}
	subjects, exists := cfg.Auth.Spaces["ENG"]
	if !exists {
		t.Fatal("expected ENG space, got none")
	}
	if len(subjects) != 2 {
		t.Errorf("expected 2 subjects, got %d", len(subjects))
	}
}

func TestConfigBuilder_WithBackends(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *ConfigBuilder
		check   func(*testing.T, *Config)
	}{
		{
			name: "sqlite quota",
			builder: func() *ConfigBuilder {
				return NewTestConfig().WithQuotaBackend("sqlite", "/tmp/quota.db")
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Quota.Backend != "sqlite" {
					t.Errorf("expected backend %q, got %q", "sqlite", cfg.Quota.Backend)
				}
				if cfg.Quota.SQLite.Path != "/tmp/quota.db" {
					t.Errorf("expected path %q, got %q", "/tmp/quota.db", cfg.Quota.SQLite.Path)
				}
			},
		},
		{
			name: "sqlite ledger",
			builder: func() *ConfigBuilder {
				return NewTestConfig().WithLedgerBackend("sqlite", "/tmp/ledger.db")
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Ledger.Backend != "sqlite" {
					t.Errorf("expected backend %q, got %q", "sqlite", cfg.Ledger.Backend)
				}
				if cfg.Ledger.SQLite.Path != "/tmp/ledger.db" {
					t.Errorf("expected path %q, got %q", "/tmp/ledger.db", cfg.Ledger.SQLite.Path)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.builder().Build()
			tt.check(t, cfg)
		})
	}
}

func TestConfigBuilder_ChainedCalls(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("0.0.0.0:8080").
		WithQuota(500).
		WithLoggingLevel("debug").
		WithMetricsEnabled(true).
		Build()

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Error("chained WithListenAddress failed")
	}
	if !cfg.Quota.Enabled || cfg.Quota.DailyLimit != 500 {
		t.Error("chained WithQuota failed")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Error("chained WithLoggingLevel failed")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("chained WithMetricsEnabled failed")
	}
}

func TestMinimalConfig(t *testing.T) {
	cfg := MinimalConfig()

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("minimal config should be valid, got error: %v", err)
	}
}
