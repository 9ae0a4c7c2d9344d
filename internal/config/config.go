// Package config loads runtime settings from the environment and
// watches the data directory for writes made by other processes.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Backend selects the key-value storage implementation.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the service's runtime settings.
type Config struct {
	DataDir   string
	Listen    string
	Backend   string // "file" or "sqlite"
	LogLevel  string
	LogFormat string
}

// Load reads configuration from a .env file (when present) and the
// environment. Environment variables win over .env entries.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg := Config{
		DataDir:   envOr("GARAGEDESK_DATA_DIR", "/var/lib/garagedesk"),
		Listen:    envOr("GARAGEDESK_LISTEN", ":8090"),
		Backend:   strings.ToLower(envOr("GARAGEDESK_BACKEND", BackendSQLite)),
		LogLevel:  envOr("GARAGEDESK_LOG_LEVEL", "info"),
		LogFormat: envOr("GARAGEDESK_LOG_FORMAT", "auto"),
	}

	if cfg.Backend != BackendFile && cfg.Backend != BackendSQLite {
		log.Warn().Str("backend", cfg.Backend).Msg("Unknown storage backend, using sqlite")
		cfg.Backend = BackendSQLite
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
