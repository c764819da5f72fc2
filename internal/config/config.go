package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"

	"github.com/GRousselet/post-nocrisis/domain/core"
)

// Config represents the complete application configuration
type Config struct {
	Store  StoreConfig
	Server ServerConfig
}

// StoreConfig holds result-store settings
type StoreConfig struct {
	Driver string
	DSN    string
}

// ServerConfig holds the read-only HTTP surface settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	storeConfig, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Store:  *storeConfig,
		Server: ServerConfig{Port: getEnvOrDefault("PORT", "8080")},
	}
	return config, nil
}

func loadStoreConfig() (*StoreConfig, error) {
	driver := getEnvOrDefault("NOCRISIS_DB_DRIVER", "sqlite")
	dsn := os.Getenv("NOCRISIS_DB_DSN")

	switch driver {
	case "sqlite":
		if dsn == "" {
			// Default to an embedded database under the user data dir.
			dir := filepath.Join(xdg.DataHome, "post-nocrisis")
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, err
			}
			dsn = filepath.Join(dir, "simulations.db")
		}
	case "postgres":
		if dsn == "" {
			return nil, core.NewInvalidParameterError("NOCRISIS_DB_DSN", "", "required for postgres driver")
		}
	default:
		return nil, core.NewInvalidParameterError("NOCRISIS_DB_DRIVER", driver, "must be sqlite or postgres")
	}

	return &StoreConfig{Driver: driver, DSN: dsn}, nil
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
