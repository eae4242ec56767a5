package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Dataset != "reservations" {
		t.Fatalf("expected reservations dataset, got %q", cfg.Dataset)
	}
	if cfg.FetchTimeout != 30*time.Second || cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("unexpected fetch/refresh durations: %s %s", cfg.FetchTimeout, cfg.RefreshInterval)
	}
	if cfg.RelayTimeout != 28*time.Second {
		t.Fatalf("expected relay timeout 28s, got %s", cfg.RelayTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATASET", "engagements")
	t.Setenv("CSV_URL", "https://example.com/export?format=csv")
	t.Setenv("REFRESH_INTERVAL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dataset != "engagements" {
		t.Fatalf("expected engagements, got %q", cfg.Dataset)
	}
	if cfg.CSVURL != "https://example.com/export?format=csv" {
		t.Fatalf("unexpected csv url %q", cfg.CSVURL)
	}
	if cfg.RefreshInterval != 2*time.Minute {
		t.Fatalf("expected 2m refresh, got %s", cfg.RefreshInterval)
	}
}
