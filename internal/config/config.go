// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// InitConfig initializes the configuration system
func InitConfig(configPath string) error {
	v = viper.New()

	// Set defaults
	setDefaults()

	// Set config file path
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Try to read existing config
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, create it with defaults
		if os.IsNotExist(err) {
			if err := v.WriteConfigAs(configPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.behind_proxy", false)
	v.SetDefault("server.tls_enabled", false)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "/var/lib/madrona/madrona.db")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "CHANGE_ME_IN_PRODUCTION_USE_ENV_VAR")
	v.SetDefault("auth.jwt_expiry_hours", 8)
	v.SetDefault("auth.bcrypt_cost", 12)

	// Email defaults
	v.SetDefault("email.enabled", true)
	v.SetDefault("email.from", "noreply@madrona.local")
	v.SetDefault("email.queue_size", 256)
	v.SetDefault("email.max_retries", 3)
	v.SetDefault("email.retry_delay", "30s")

	// SMTP defaults (used when no SendGrid API key is configured)
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.require_login", true)
	v.SetDefault("smtp.tls_mode", "auto") // "auto", "ssl", "none"

	// SendGrid defaults
	v.SetDefault("sendgrid.api_key", "")
	v.SetDefault("sendgrid.whitelist_mode", false)
	v.SetDefault("sendgrid.whitelist", []string{})

	// Analytics defaults
	v.SetDefault("analytics.search_url", "http://localhost:9200/preprints/_search")
	v.SetDefault("analytics.timeout", "30s")
}

// GetString returns a config value as string
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetInt returns a config value as int
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetBool returns a config value as bool
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration returns a config value as time.Duration
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice returns a config value as a string slice
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	return v.GetStringSlice(key)
}

// Set sets a config value and saves to file
func Set(key string, value interface{}) error {
	if v == nil {
		return fmt.Errorf("config not initialized")
	}

	v.Set(key, value)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SetTransient sets a config value without persisting it (used for testing)
func SetTransient(key string, value interface{}) {
	if v == nil {
		v = viper.New()
		setDefaults()
	}
	v.Set(key, value)
}

// GetAll returns all config values as a map
func GetAll() map[string]interface{} {
	if v == nil {
		return nil
	}
	return v.AllSettings()
}
