package config

import (
	"fmt"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds the command settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// MockDataDir is where cmd/genmock writes its synthetic fixtures.
	MockDataDir string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:    sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MockDataDir: sharedcfg.EnvOrDefault("MOCK_DATA_DIR", "data/mock"),
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want json or text)", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}
