package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Fatalf("unexpected provider default: %s", cfg.Provider)
	}
	if cfg.BackendBaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected backend URL default: %s", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != 60*time.Second {
		t.Fatalf("unexpected backend timeout default: %v", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected session TTL default: %v", cfg.SessionTTL)
	}
	if cfg.ExportEnabled {
		t.Fatalf("export must be disabled by default")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INTERVIEW_BACKEND_URL", "http://backend:9000")
	t.Setenv("INTERVIEW_BACKEND_TIMEOUT", "15s")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REPORT_EXPORT_ENABLED", "true")
	t.Setenv("REPORT_EXPORT_SCHEDULE", "*/5 * * * *")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.BackendBaseURL != "http://backend:9000" {
		t.Fatalf("backend URL not read from env: %s", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != 15*time.Second {
		t.Fatalf("backend timeout not read from env: %v", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("session TTL not read from env: %v", cfg.SessionTTL)
	}
	if !cfg.ExportEnabled || cfg.ExportSchedule != "*/5 * * * *" {
		t.Fatalf("export settings not read from env: %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "oracle")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestLoadConfigBadDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("bad duration must fall back to default, got %v", cfg.SessionTTL)
	}
}
