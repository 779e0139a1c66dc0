package config

import (
	"os"
	"strconv"

	"gridlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Upload  UploadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// SessionConfig holds exploration session settings
type SessionConfig struct {
	Passphrase string
	PageSize   int
}

// UploadConfig holds upload staging settings
type UploadConfig struct {
	Dir         string
	MaxFileSize int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("GRIDLENS_PORT", "8080"),
		},
		Session: SessionConfig{
			Passphrase: os.Getenv("GRIDLENS_PASSPHRASE"),
			PageSize:   getEnvIntOrDefault("GRIDLENS_PAGE_SIZE", 50),
		},
		Upload: UploadConfig{
			Dir:         getEnvOrDefault("GRIDLENS_UPLOAD_DIR", os.TempDir()),
			MaxFileSize: int64(getEnvIntOrDefault("GRIDLENS_MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Session.PageSize <= 0 {
		return errors.ConfigInvalid("page size must be positive")
	}
	if config.Upload.MaxFileSize <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
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
