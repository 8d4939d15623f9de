// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	// Cleaning defaults (overridable per run via CLI flags)
	RemoveDuplicates bool
	RemoveNulls      bool

	// Optional database connections (nil when not configured)
	Postgres  *PostgresConfig
	Snowflake *SnowflakeConfig

	// Audit trail of cleaning runs (requires Postgres)
	AuditEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RemoveDuplicates: getEnvAsBool("REMOVE_DUPLICATES", true),
		RemoveNulls:      getEnvAsBool("REMOVE_NULLS", true),
		AuditEnabled:     getEnvAsBool("AUDIT_ENABLED", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	// Database configurations are optional; both loaders return nil when the
	// corresponding environment variables are absent.
	pgConfig, err := LoadPostgresConfig()
	if err != nil {
		return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
	}
	cfg.Postgres = pgConfig

	snowConfig, err := LoadSnowflakeConfig()
	if err != nil {
		return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
	}
	cfg.Snowflake = snowConfig

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is internally consistent
func (c *Config) Validate() error {
	if c.AuditEnabled && c.Postgres == nil {
		return errors.New("audit trail requires PostgreSQL configuration")
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
