// Package config loads application configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Upload limit for statement files, in megabytes.
	UploadLimitMB int `yaml:"upload_limit_mb"`

	// Batch import
	MaxConcurrency int `yaml:"max_concurrency"`

	// Monetary tolerance for reconciliation totals, in currency units.
	Tolerance string `yaml:"tolerance"`
}

// Load reads the YAML file at path when it exists, applies defaults, and
// lets environment variables override file values. A missing file is not
// an error; the defaults stand.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:           8080,
		LogLevel:       "info",
		UploadLimitMB:  32,
		MaxConcurrency: 4,
		Tolerance:      "0.01",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %q: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.UploadLimitMB = getEnvInt("UPLOAD_LIMIT_MB", cfg.UploadLimitMB)
	cfg.MaxConcurrency = getEnvInt("MAX_CONCURRENCY", cfg.MaxConcurrency)
	cfg.Tolerance = getEnv("TOLERANCE", cfg.Tolerance)

	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
