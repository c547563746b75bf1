package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Acquire AcquireConfig
	OCR     OCRConfig
	LLM     LLMConfig
	RunDB   RunDBConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ScratchDir      string
	ScratchMaxAge   time.Duration
	CleanupSchedule string
}

// StorageConfig selects and configures the case store backend
type StorageConfig struct {
	Backend   string // "local" | "gcs"
	DataDir   string
	GCSBucket string
}

// AcquireConfig holds the poppler tool configuration
type AcquireConfig struct {
	Pdftotext string
	Pdftoppm  string
}

// OCRConfig holds tesseract configuration
type OCRConfig struct {
	Tesseract   string
	Language    string
	TessdataDir string
}

// LLMConfig holds language-model client configuration
type LLMConfig struct {
	Provider      string // "openai" | "vertex"
	Model         string
	APIKey        string
	BaseURL       string
	Temperature   float32
	Timeout       time.Duration
	VertexProject string
	VertexRegion  string
}

// RunDBConfig holds the run-summary store configuration
type RunDBConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ScratchDir:      getEnv("SCRATCH_DIR", "./tmp"),
			ScratchMaxAge:   getEnvAsDuration("SCRATCH_MAX_AGE", 24*time.Hour),
			CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "@hourly"),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			DataDir:   getEnv("DATA_DIR", "data_cases"),
			GCSBucket: getEnv("GCS_BUCKET", ""),
		},
		Acquire: AcquireConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "spa"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", "openai"),
			Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			BaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:   getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:       getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			VertexProject: getEnv("VERTEX_PROJECT_ID", ""),
			VertexRegion:  getEnv("VERTEX_REGION", "us-central1"),
		},
		RunDB: RunDBConfig{
			Path: getEnv("RUN_DB_PATH", "runs.db"),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
		}
	case "vertex":
		if c.LLM.VertexProject == "" {
			return NewAppError("CONFIG_ERROR", "VERTEX_PROJECT_ID is required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "LLM_PROVIDER must be openai or vertex", ErrInvalidInput)
	}
	if c.Storage.Backend == "gcs" && c.Storage.GCSBucket == "" {
		return NewAppError("CONFIG_ERROR", "GCS_BUCKET is required for the gcs backend", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
