package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FMP_API_KEY", "test-fmp-key")
	t.Setenv("TRADIER_API_KEY", "test-tradier-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8086" {
		t.Errorf("Port = %q, want 8086", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Redis.Host != "localhost" {
		t.Errorf("Redis.Host = %q, want localhost", cfg.Redis.Host)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("Database.MaxConns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("Database.MaxConnLifetime = %v, want 1h", cfg.Database.MaxConnLifetime)
	}
	if cfg.FMP.BaseURL != "https://financialmodelingprep.com/api/v3" {
		t.Errorf("FMP.BaseURL = %q", cfg.FMP.BaseURL)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}
}

func TestLoad_MissingProviderKeys(t *testing.T) {
	t.Setenv("FMP_API_KEY", "")
	t.Setenv("TRADIER_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without FMP_API_KEY")
	}

	t.Setenv("FMP_API_KEY", "test-fmp-key")
	if _, err := Load(); err == nil {
		t.Error("Load() should fail without TRADIER_API_KEY")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("FMP_API_KEY", "test-fmp-key")
	t.Setenv("TRADIER_API_KEY", "test-tradier-key")
	t.Setenv("ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject unknown ENV")
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := getEnvAsInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvAsInt = %d, want 42", got)
	}

	t.Setenv("TEST_INT", "not-a-number")
	if got := getEnvAsInt("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt fallback = %d, want 7", got)
	}

	if got := getEnvAsInt("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("getEnvAsInt unset = %d, want 7", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	if getEnvAsBool("TEST_BOOL", true) {
		t.Error("getEnvAsBool should parse false")
	}

	t.Setenv("TEST_BOOL", "garbage")
	if !getEnvAsBool("TEST_BOOL", true) {
		t.Error("getEnvAsBool should fall back on parse failure")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "90s")
	if got := getEnvAsDuration("TEST_DUR", "1h"); got != 90*time.Second {
		t.Errorf("getEnvAsDuration = %v, want 90s", got)
	}

	t.Setenv("TEST_DUR", "invalid")
	if got := getEnvAsDuration("TEST_DUR", "1h"); got != time.Hour {
		t.Errorf("getEnvAsDuration fallback = %v, want 1h", got)
	}
}
