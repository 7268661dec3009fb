package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	envEndpoint = "RECEIPTSCAN_ENDPOINT"
	envTimeout  = "RECEIPTSCAN_TIMEOUT"
	envStateDir = "RECEIPTSCAN_STATE_DIR"
	envLogLevel = "RECEIPTSCAN_LOG_LEVEL"
)

// applyEnv overlays cfg with values from the environment. A .env file in the
// working directory is loaded first when present; a missing file is fine.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv(envEndpoint); ok && v != "" {
		cfg.EndpointURL = v
	}
	if v, ok := os.LookupEnv(envTimeout); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v, ok := os.LookupEnv(envStateDir); ok && v != "" {
		cfg.StateDir = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
}
