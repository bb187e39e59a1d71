package config

import (
	"os"
	"strconv"

	"fairselect/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Audit    AuditConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings; URL may be empty, in
// which case audit runs are not persisted
type DatabaseConfig struct {
	URL string
}

// AuditConfig holds defaults for the selection policy
type AuditConfig struct {
	StepSize          float64
	RandomSeed        int64
	MaxParallelCurves int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Audit: AuditConfig{
			StepSize:          getEnvFloatOrDefault("STEP_SIZE", 0.001),
			RandomSeed:        int64(getEnvIntOrDefault("RANDOM_SEED", 42)),
			MaxParallelCurves: int64(getEnvIntOrDefault("MAX_PARALLEL_CURVES", 4)),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Audit.StepSize <= 0 || config.Audit.StepSize > 1 {
		return errors.ConfigInvalid("STEP_SIZE must be in (0, 1]")
	}
	if config.Audit.MaxParallelCurves < 1 {
		return errors.ConfigInvalid("MAX_PARALLEL_CURVES must be >= 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
