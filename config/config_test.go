package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	if cfg.HTTP.Port != "8080" {
		t.Errorf("http port: want 8080, got %s", cfg.HTTP.Port)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access ttl: want 15m, got %s", cfg.JWT.AccessTokenTTL)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("rate limit window: want 1m, got %s", cfg.RateLimit.Window)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis addr: want empty, got %q", cfg.Redis.Addr)
	}
	if cfg.IsProduction() {
		t.Error("default environment must not be production")
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	if cfg.HTTP.Port != "9090" {
		t.Errorf("http port: want 9090, got %s", cfg.HTTP.Port)
	}
	if !cfg.IsProduction() {
		t.Error("want production environment")
	}
	if cfg.RateLimit.Requests != 5 {
		t.Errorf("rate limit requests: want 5, got %d", cfg.RateLimit.Requests)
	}
	if cfg.JWT.AccessTokenTTL != time.Hour {
		t.Errorf("access ttl: want 1h, got %s", cfg.JWT.AccessTokenTTL)
	}
}

func TestNewConfig_InvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	if _, err := NewConfig(); err == nil {
		t.Fatal("want error for malformed duration")
	}
}
