package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_BASE_URL", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiModel != "gemini-2.5-flash-image-preview" {
		t.Fatalf("GeminiModel mismatch: %q", cfg.GeminiModel)
	}
	if cfg.GeminiBaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Fatalf("GeminiBaseURL mismatch: %q", cfg.GeminiBaseURL)
	}
	if cfg.OutputDir != "./renders" {
		t.Fatalf("OutputDir mismatch: %q", cfg.OutputDir)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Fatalf("RequestTimeout mismatch: %s", cfg.RequestTimeout)
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "imagen-4.0-generate-001")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiModel != "imagen-4.0-generate-001" {
		t.Fatalf("GeminiModel mismatch: %q", cfg.GeminiModel)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Fatalf("OutputDir mismatch: %q", cfg.OutputDir)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout mismatch: %s", cfg.RequestTimeout)
	}
}
