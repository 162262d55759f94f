package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenAddr == "" {
		t.Fatal("Expected default listen address")
	}
	if cfg.DataDir == "" {
		t.Fatal("Expected default data dir")
	}
	if cfg.RedisAddr == "" {
		t.Fatal("Expected default redis address")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NOTIFY_DISABLED", "true")

	cfg := Load()

	if cfg.ListenAddr != ":9999" {
		t.Fatalf("Expected :9999, got %s", cfg.ListenAddr)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("Expected redis db 3, got %d", cfg.RedisDB)
	}
	if !cfg.NotifyOff {
		t.Fatal("Expected notifications disabled")
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.RedisDB != 0 {
		t.Fatalf("Expected fallback 0, got %d", cfg.RedisDB)
	}
}
