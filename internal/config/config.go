package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Remote  RemoteConfig
	Local   LocalConfig
	Billing BillingConfig
	Logger  LoggerConfig
	Auth    AuthConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// RemoteConfig holds the remote document-store API configuration.
// When disabled (or on any remote failure) the local store serves all calls.
type RemoteConfig struct {
	Enabled    bool
	BaseURL    string
	APIKey     string
	DataSource string
	Database   string
	Timeout    int // seconds
}

// LocalConfig holds the local fallback store configuration.
type LocalConfig struct {
	Path string // SQLite database file
}

// BillingConfig holds invoicing behaviour configuration.
type BillingConfig struct {
	RequireAddress    bool
	RequirePhone      bool
	LowStockThreshold int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Remote: RemoteConfig{
			Enabled:    getEnvAsBool("REMOTE_ENABLED", false),
			BaseURL:    getEnv("REMOTE_BASE_URL", ""),
			APIKey:     getEnv("REMOTE_API_KEY", ""),
			DataSource: getEnv("REMOTE_DATA_SOURCE", "Cluster0"),
			Database:   getEnv("REMOTE_DATABASE", "om_traders"),
			Timeout:    getEnvAsInt("REMOTE_TIMEOUT", 10),
		},
		Local: LocalConfig{
			Path: getEnv("LOCAL_STORE_PATH", "om-traders.db"),
		},
		Billing: BillingConfig{
			RequireAddress:    getEnvAsBool("INVOICE_REQUIRE_ADDRESS", true),
			RequirePhone:      getEnvAsBool("INVOICE_REQUIRE_PHONE", true),
			LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 5),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Remote.Enabled {
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote base URL is required when remote store is enabled")
		}
		if c.Remote.APIKey == "" {
			return fmt.Errorf("remote API key is required when remote store is enabled")
		}
		if c.Remote.DataSource == "" {
			return fmt.Errorf("remote data source is required when remote store is enabled")
		}
		if c.Remote.Database == "" {
			return fmt.Errorf("remote database name is required when remote store is enabled")
		}
		if c.Remote.Timeout < 1 {
			return fmt.Errorf("remote timeout must be at least 1 second")
		}
	}

	if c.Local.Path == "" {
		return fmt.Errorf("local store path is required")
	}

	if c.Billing.LowStockThreshold < 0 {
		return fmt.Errorf("low stock threshold cannot be negative")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
