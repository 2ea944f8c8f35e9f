package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	OCR       OCRConfig
	Providers ProvidersConfig
	Pipeline  PipelineConfig
}

// DatabaseConfig holds the stores used by reprocessing and product lookup.
type DatabaseConfig struct {
	DSN             string // Postgres image store; empty -> bbolt file
	BoltPath        string
	ProductsDBPath  string // sqlite reference catalog; empty -> built-in table
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// OCRConfig holds local (tesseract) engine configuration.
type OCRConfig struct {
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	PSM           int
	OEM           int
}

// ProvidersConfig holds cloud provider credentials and models.
type ProvidersConfig struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	Timeout         time.Duration
}

// PipelineConfig holds request defaults.
type PipelineConfig struct {
	DefaultTimeout time.Duration
	HighValueLimit float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			BoltPath:        getEnv("BOLT_PATH", "./receipt-vision.db"),
			ProductsDBPath:  getEnv("PRODUCTS_DB_PATH", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("TESSERACT_PSM", 6),
			OEM:           getEnvAsInt("TESSERACT_OEM", 1),
		},
		Providers: ProvidersConfig{
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
			Timeout:         getEnvAsDuration("PROVIDER_TIMEOUT", 45*time.Second),
		},
		Pipeline: PipelineConfig{
			DefaultTimeout: getEnvAsDuration("PIPELINE_TIMEOUT", 30*time.Second),
			HighValueLimit: 500,
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
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
