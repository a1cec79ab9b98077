package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Load()
	cfg.APIKey = "k"
	cfg.OpenRouterAPIKey = "k"
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("unexpected default port %q", cfg.Port)
	}
	if cfg.MaxPages != 10 {
		t.Errorf("unexpected default max pages %d", cfg.MaxPages)
	}
	if cfg.MinTextLayer != 50 {
		t.Errorf("unexpected default text layer threshold %d", cfg.MinTextLayer)
	}
	if cfg.OCRTimeout != 45*time.Second {
		t.Errorf("unexpected default ocr timeout %v", cfg.OCRTimeout)
	}
	if cfg.ExtractionTimeout != 60*time.Second {
		t.Errorf("unexpected default extraction timeout %v", cfg.ExtractionTimeout)
	}
	if cfg.OCRProvider != "tesseract" {
		t.Errorf("unexpected default ocr provider %q", cfg.OCRProvider)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_PAGES", "3")
	t.Setenv("OCR_TIMEOUT", "10s")
	t.Setenv("OCR_SCALE", "1.5")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("port override not applied: %q", cfg.Port)
	}
	if cfg.MaxPages != 3 {
		t.Errorf("max pages override not applied: %d", cfg.MaxPages)
	}
	if cfg.OCRTimeout != 10*time.Second {
		t.Errorf("ocr timeout override not applied: %v", cfg.OCRTimeout)
	}
	if cfg.OCRScale != 1.5 {
		t.Errorf("ocr scale override not applied: %v", cfg.OCRScale)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("MAX_PAGES", "lots")
	t.Setenv("OCR_TIMEOUT", "soon")

	cfg := Load()
	if cfg.MaxPages != 10 {
		t.Errorf("expected fallback max pages, got %d", cfg.MaxPages)
	}
	if cfg.OCRTimeout != 45*time.Second {
		t.Errorf("expected fallback ocr timeout, got %v", cfg.OCRTimeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	missingKey := cfg
	missingKey.APIKey = ""
	if err := missingKey.Validate(); err == nil {
		t.Error("expected error for missing api key")
	}

	badProvider := cfg
	badProvider.OCRProvider = "carrier-pigeon"
	if err := badProvider.Validate(); err == nil {
		t.Error("expected error for unknown ocr provider")
	}

	remoteNoURL := cfg
	remoteNoURL.OCRProvider = "remote"
	remoteNoURL.OCRURL = ""
	if err := remoteNoURL.Validate(); err == nil {
		t.Error("expected error for remote provider without url")
	}
}
