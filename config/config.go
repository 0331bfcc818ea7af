// Package config has the configuration for the app: environment variables for
// the server and PBS client, plus the YAML biologics and disease lists.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultBaseURL is the production PBS public data API.
const DefaultBaseURL = "https://data-api.health.gov.au/pbs/api/v3"

// Config holds all application configuration
type Config struct {
	Port            string
	Address         string
	Env             string
	LogLevel        string
	SubscriptionKey string  // PBS API subscription key, required
	BaseURL         string  // PBS API base URL
	RateLimit       float64 // outbound requests per second
	MaxAttempts     int     // fetch retry ceiling per request
	RefreshDay      int     // day of month on which the scheduled refresh runs
	DatasetPath     string  // where the CSV snapshot is written
	ConfigDir       string  // directory holding biologics.yaml and diseases.yaml
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8000"),
		Address:         getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:             getEnvWithDefault("ENV", "dev"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		SubscriptionKey: os.Getenv("PBS_SUBSCRIPTION_KEY"),
		BaseURL:         getEnvWithDefault("PBS_BASE_URL", DefaultBaseURL),
		RateLimit:       getFloatEnvWithDefault("PBS_RATE_LIMIT", 0.2),
		MaxAttempts:     getIntEnvWithDefault("PBS_MAX_ATTEMPTS", 5),
		RefreshDay:      getIntEnvWithDefault("REFRESH_DAY", 1),
		DatasetPath:     getEnvWithDefault("DATASET_PATH", "files/biologics.csv"),
		ConfigDir:       getEnvWithDefault("CONFIG_DIR", "config"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.SubscriptionKey == "" {
		return fmt.Errorf("PBS_SUBSCRIPTION_KEY is required")
	}

	if cfg.BaseURL == "" || !strings.HasPrefix(cfg.BaseURL, "http") {
		return fmt.Errorf("invalid PBS_BASE_URL: %q", cfg.BaseURL)
	}

	if cfg.RateLimit <= 0 || cfg.RateLimit > 10 {
		return fmt.Errorf("invalid PBS_RATE_LIMIT: must be in (0, 10], got %v", cfg.RateLimit)
	}

	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 20 {
		return fmt.Errorf("invalid PBS_MAX_ATTEMPTS: must be between 1 and 20, got %d", cfg.MaxAttempts)
	}

	// Days past 28 don't exist in every month, so the refresh would be skipped
	if cfg.RefreshDay < 1 || cfg.RefreshDay > 28 {
		return fmt.Errorf("invalid REFRESH_DAY: must be between 1 and 28, got %d", cfg.RefreshDay)
	}

	if cfg.DatasetPath == "" {
		return fmt.Errorf("DATASET_PATH cannot be empty")
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnvWithDefault gets an environment variable as float64 with a default value
func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
