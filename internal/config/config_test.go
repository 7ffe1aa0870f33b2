package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if got, _ := cfg.Store.Normalized(); got != BackendPostgres {
		t.Fatalf("expected default backend postgres, got %q", got)
	}
	if cfg.Engine.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts 3, got %d", cfg.Engine.MaxAttempts)
	}
	if cfg.Engine.RetryBackoff != 0 {
		t.Fatalf("expected no default retry backoff, got %v", cfg.Engine.RetryBackoff)
	}
	if !cfg.Seed.Enabled || cfg.Seed.TotalSeats != 500 {
		t.Fatalf("unexpected seed defaults: %+v", cfg.Seed)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("ENGINE_MAX_ATTEMPTS", "5")
	t.Setenv("ENGINE_RETRY_BACKOFF", "20ms")
	t.Setenv("SEED_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.App.Port)
	}
	backend, err := cfg.Store.Normalized()
	if err != nil {
		t.Fatalf("expected backend accepted, got %v", err)
	}
	if backend != BackendRedis {
		t.Fatalf("expected backend redis, got %q", backend)
	}
	if cfg.Engine.MaxAttempts != 5 || cfg.Engine.RetryBackoff != 20*time.Millisecond {
		t.Fatalf("unexpected engine config: %+v", cfg.Engine)
	}
	if cfg.Seed.Enabled {
		t.Fatal("expected seeding disabled")
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongodb")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to return an error")
	}
}
