package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"FOODMENU_PORT", "FOODMENU_LOG_LEVEL", "FOODMENU_API_URL", "FOODMENU_API_TIMEOUT", "FOODMENU_RATE_LIMIT", "FOODMENU_ALLOWED_ORIGINS", "FOODMENU_LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.API.BaseURL != "http://localhost:3333" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.RateLimit != 60 {
		t.Errorf("RateLimit = %d, want 60", cfg.RateLimit)
	}
	if cfg.Origins != nil {
		t.Errorf("Origins = %v, want none", cfg.Origins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FOODMENU_PORT", "9000")
	t.Setenv("FOODMENU_API_URL", "http://api.local/v1")
	t.Setenv("FOODMENU_API_TIMEOUT", "2500ms")
	t.Setenv("FOODMENU_RATE_LIMIT", "5")
	t.Setenv("FOODMENU_ALLOWED_ORIGINS", "menu.local, *.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.API.BaseURL != "http://api.local/v1" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.API.Timeout != 2500*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}
	if want := []string{"menu.local", "*.example.com"}; !reflect.DeepEqual(cfg.Origins, want) {
		t.Errorf("Origins = %v, want %v", cfg.Origins, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FOODMENU_API_TIMEOUT", "soon"},
		{"FOODMENU_RATE_LIMIT", "-1"},
		{"FOODMENU_RATE_LIMIT", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
