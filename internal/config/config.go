// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote endpoint
	APIBaseURL string
	AuthToken  string
	Timeout    time.Duration

	// Backend selection
	DataBackend string

	// Viewer identity for the memory backend
	Viewer string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from a .env file (when present) and the
// environment, environment winning.
func Load() *Config {
	// Missing .env is fine; the environment alone is a valid source.
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", ""),
		AuthToken:   getEnv("AUTH_TOKEN", ""),
		Timeout:     getEnvDuration("API_TIMEOUT", 15*time.Second),
		DataBackend: getEnv("DATA_BACKEND", "memory"),
		Viewer:      getEnv("VIEWER", "demo"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	switch c.DataBackend {
	case "memory":
	case "rpc":
		if c.APIBaseURL == "" {
			errs = append(errs, "API_BASE_URL is required for the rpc backend")
		} else if u, err := url.Parse(c.APIBaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
		if c.AuthToken == "" {
			errs = append(errs, "AUTH_TOKEN is required for the rpc backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory rpc]", c.DataBackend))
	}

	if c.Timeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid timeout %v: must be at least 1 second", c.Timeout))
	} else if c.Timeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid timeout %v: must be at most 5 minutes", c.Timeout))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json", "pretty":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s'", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
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
