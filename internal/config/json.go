package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/receiptscan/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the file can specify the timeout either as a string like
// "30s" or as integer nanoseconds.
type jsonConfig struct {
	EndpointURL    string         `json:"endpoint_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StateDir       string         `json:"state_dir"`
	LogLevel       string         `json:"log_level"`
}

// applyJSON overlays cfg with values from the JSON file at path. Absent
// fields leave the current values in place.
func applyJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if jc.EndpointURL != "" {
		cfg.EndpointURL = jc.EndpointURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StateDir != "" {
		cfg.StateDir = jc.StateDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
