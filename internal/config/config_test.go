package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != "5175" {
		t.Fatalf("expected default port 5175, got %q", cfg.Port)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.RoundTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", cfg.RoundTTL)
	}
	if cfg.WSRate != 100*time.Millisecond || cfg.WSBurst != 10 {
		t.Fatalf("unexpected ws limits %v/%d", cfg.WSRate, cfg.WSBurst)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_DSN", "./data/rounds.db")
	t.Setenv("ROUND_TTL", "30m")
	t.Setenv("PRODUCTION", "true")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != "9000" || !cfg.Production {
		t.Fatalf("unexpected config %+v", cfg)
	}
	opts := cfg.StoreOptions()
	if opts.Driver != "sqlite" || opts.SQLiteDSN != "./data/rounds.db" {
		t.Fatalf("unexpected store options %+v", opts)
	}
	if opts.Redis.TTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", opts.Redis.TTL)
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("ROUND_TTL", "soon")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}
