package config

import (
	"os"
	"strconv"

	"statviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	Enabled bool // analyses are kept in memory when false
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port       string
	ReportPort string
	GinMode    string
}

// DataConfig holds data ingestion settings
type DataConfig struct {
	DataFile string // optional CSV/XLSX preloaded at startup
	Sheet    string
}

// AnalysisConfig holds statistical defaults applied when a request omits
// options.
type AnalysisConfig struct {
	ConfLevel float64
	Bootstrap int
	Seed      int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			Enabled: os.Getenv("DATABASE_URL") != "",
		},
		Server: ServerConfig{
			Port:       getEnvOrDefault("PORT", "8080"),
			ReportPort: getEnvOrDefault("REPORT_PORT", "8081"),
			GinMode:    getEnvOrDefault("GIN_MODE", "debug"),
		},
		Data: DataConfig{
			DataFile: os.Getenv("DATA_FILE"),
			Sheet:    getEnvOrDefault("DATA_SHEET", "Sheet1"),
		},
		Analysis: AnalysisConfig{
			ConfLevel: getEnvFloatOrDefault("CONF_LEVEL", 0.95),
			Bootstrap: getEnvIntOrDefault("BOOTSTRAP", 1000),
			Seed:      int64(getEnvIntOrDefault("SEED", 42)),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if cfg.Analysis.ConfLevel <= 0 || cfg.Analysis.ConfLevel >= 1 {
		return errors.ConfigInvalid("CONF_LEVEL must be in (0, 1)")
	}
	if cfg.Analysis.Bootstrap < 0 {
		return errors.ConfigInvalid("BOOTSTRAP must be >= 0")
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
