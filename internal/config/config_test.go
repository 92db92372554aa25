package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("got port %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("got log level %q, want info", cfg.LogLevel)
	}
	if cfg.ExecutionURL != "" {
		t.Errorf("got execution url %q, want empty", cfg.ExecutionURL)
	}
	if cfg.ExecutionTimeout != 5*time.Second {
		t.Errorf("got execution timeout %v, want 5s", cfg.ExecutionTimeout)
	}
	if cfg.ExpiryInterval != 30*time.Second {
		t.Errorf("got expiry interval %v, want 30s", cfg.ExpiryInterval)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("got shutdown timeout %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EXECUTION_URL", "http://localhost:7000/orders")
	t.Setenv("EXPIRY_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("got port %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("got log level %q, want debug", cfg.LogLevel)
	}
	if cfg.ExecutionURL != "http://localhost:7000/orders" {
		t.Errorf("got execution url %q", cfg.ExecutionURL)
	}
	if cfg.ExpiryInterval != time.Minute {
		t.Errorf("got expiry interval %v, want 1m", cfg.ExpiryInterval)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "not-a-number"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad execution timeout", "EXECUTION_TIMEOUT", "5 seconds"},
		{"bad expiry interval", "EXPIRY_INTERVAL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
