package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// app config: AI provider, upstream interview backend, storage
type Config struct {
	Provider       string
	BackendBaseURL string
	BackendTimeout time.Duration
	RedisAddr      string
	SessionTTL     time.Duration
	ExportDir      string
	ExportSchedule string
	ExportEnabled  bool
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
		BackendBaseURL: getEnvOrDefault("INTERVIEW_BACKEND_URL", "http://localhost:8000"),
		BackendTimeout: getEnvDuration("INTERVIEW_BACKEND_TIMEOUT", 60*time.Second),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 2*time.Hour),
		ExportDir:      getEnvOrDefault("REPORT_EXPORT_DIR", "./exports"),
		ExportSchedule: getEnvOrDefault("REPORT_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportEnabled:  getEnvBool("REPORT_EXPORT_ENABLED", false),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.BackendBaseURL == "" {
		return errors.New("INTERVIEW_BACKEND_URL must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
