/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, connection rate
limits, and chat payload size limits.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Connection rate limiting (token bucket per client IP).
	ConnectRate  float64
	ConnectBurst int

	// Chat payload limits, enforced before message construction.
	MaxUsernameBytes int
	MaxTextBytes     int
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	port, err := intFromEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the allowed range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Connection Rate Limiting ---
	rateStr := os.Getenv("CONNECT_RATE")
	if rateStr == "" {
		rateStr = "0.2"
	}
	connectRate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || connectRate <= 0 {
		return nil, fmt.Errorf("invalid CONNECT_RATE environment variable: %q", rateStr)
	}
	cfg.ConnectRate = connectRate

	burst, err := intFromEnv("CONNECT_BURST", 5)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		return nil, fmt.Errorf("CONNECT_BURST must be at least 1, got %d", burst)
	}
	cfg.ConnectBurst = burst

	// --- Chat Payload Limits ---
	maxUsername, err := intFromEnv("MAX_USERNAME_BYTES", 32)
	if err != nil {
		return nil, err
	}
	if maxUsername < 1 {
		return nil, fmt.Errorf("MAX_USERNAME_BYTES must be at least 1, got %d", maxUsername)
	}
	cfg.MaxUsernameBytes = maxUsername

	maxText, err := intFromEnv("MAX_TEXT_BYTES", 5000)
	if err != nil {
		return nil, err
	}
	if maxText < 1 {
		return nil, fmt.Errorf("MAX_TEXT_BYTES must be at least 1, got %d", maxText)
	}
	cfg.MaxTextBytes = maxText

	return cfg, nil
}

// intFromEnv parses the named environment variable as an integer, returning
// the fallback when the variable is unset.
func intFromEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return value, nil
}
