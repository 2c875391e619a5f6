package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("access TTL default = %v, want 15m", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh TTL default = %v, want 168h", cfg.JWT.RefreshTTL)
	}
	if cfg.HTTP.Port != "8080" {
		t.Fatalf("port default = %q", cfg.HTTP.Port)
	}
	if cfg.Database.URL == "" {
		t.Fatal("database URL should be derived from parts")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "sekrit")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.JWT.AccessSecret != "sekrit" {
		t.Fatalf("access secret = %q", cfg.JWT.AccessSecret)
	}
	if cfg.JWT.AccessTTL != 30*time.Minute {
		t.Fatalf("access TTL = %v, want 30m", cfg.JWT.AccessTTL)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/app?sslmode=disable" {
		t.Fatalf("database URL = %q", cfg.Database.URL)
	}
	// Bare integers are treated as seconds.
	if cfg.Context.ShutdownTimeout != 20*time.Second {
		t.Fatalf("shutdown timeout = %v, want 20s", cfg.Context.ShutdownTimeout)
	}
}
