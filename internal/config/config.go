package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Assistant gateway
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	// Feedback endpoint
	FeedbackURL string

	// OCR
	OCRProvider   string // "tesseract" or "remote"
	OCRURL        string
	OCRAPIKey     string
	TesseractPath string

	// Papers metadata
	DBPath string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Extraction
	PageWorkers       int
	MaxPages          int
	MinTextLayer      int
	OCRScale          float64
	OCRTimeout        time.Duration
	ExtractionTimeout time.Duration
	MaxFetchBytes     int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PYQHUB_API_KEY"),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   envOr("OPENROUTER_MODEL", "openai/gpt-oss-20b:free"),
		OpenRouterBaseURL: envOr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),

		FeedbackURL: os.Getenv("FEEDBACK_URL"),

		OCRProvider:   envOr("OCR_PROVIDER", "tesseract"),
		OCRURL:        os.Getenv("OCR_URL"),
		OCRAPIKey:     os.Getenv("OCR_API_KEY"),
		TesseractPath: envOr("TESSERACT_PATH", "tesseract"),

		DBPath: envOr("DB_PATH", "pyqhub.db"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		PageWorkers:       envInt("PAGE_WORKERS", 2),
		MaxPages:          envInt("MAX_PAGES", 10),
		MinTextLayer:      envInt("MIN_TEXT_LAYER", 50),
		OCRScale:          envFloat("OCR_SCALE", 2.0),
		OCRTimeout:        envDuration("OCR_TIMEOUT", 45*time.Second),
		ExtractionTimeout: envDuration("EXTRACTION_TIMEOUT", 60*time.Second),
		MaxFetchBytes:     envInt64("MAX_FETCH_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 2
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	if cfg.MinTextLayer <= 0 {
		cfg.MinTextLayer = 50
	}
	if cfg.OCRScale <= 0 {
		cfg.OCRScale = 2.0
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 45 * time.Second
	}
	if cfg.ExtractionTimeout <= 0 {
		cfg.ExtractionTimeout = 60 * time.Second
	}
	if cfg.MaxFetchBytes <= 0 {
		cfg.MaxFetchBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PYQHUB_API_KEY is required")
	}
	if c.OpenRouterAPIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if c.OCRProvider != "tesseract" && c.OCRProvider != "remote" {
		return fmt.Errorf("OCR_PROVIDER must be tesseract or remote, got %q", c.OCRProvider)
	}
	if c.OCRProvider == "remote" && c.OCRURL == "" {
		return fmt.Errorf("OCR_URL is required when OCR_PROVIDER=remote")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
