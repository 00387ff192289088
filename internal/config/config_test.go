package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("RENEWAL_SWEEP_INTERVAL_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("port default: got %q", cfg.App.Port)
	}
	if cfg.Redis.EventsChannel == "" {
		t.Fatalf("expected default events channel")
	}
	if cfg.Renewal.SweepInterval() != time.Hour {
		t.Fatalf("sweep interval default: got %v", cfg.Renewal.SweepInterval())
	}
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected Load to fail for invalid REDIS_DB")
	}
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("REDIS_DB", "0")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected Load to fail with default secret in production")
	}

	t.Setenv("AUTH_JWT_SECRET", "a-real-production-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("expected Load to succeed with explicit secret: %v", err)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "0")
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "abc")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("timeout fallback: got %v", cfg.App.RequestTimeout())
	}
	if !cfg.Postgres.RunMigrations {
		t.Fatalf("run migrations should fall back to true")
	}
}

func TestReminderDedupeFallback(t *testing.T) {
	if got := (RenewalConfig{}).ReminderDedupe(); got != 24*time.Hour {
		t.Fatalf("dedupe fallback: got %v", got)
	}
	if got := (RenewalConfig{}).SweepInterval(); got != 0 {
		t.Fatalf("zero interval should disable sweep, got %v", got)
	}
}
