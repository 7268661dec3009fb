// Package config holds runtime settings for the receiptscan client and the
// layered loading that populates them: defaults, then an optional JSON file,
// then environment variables, then command-line flags. Later sources take
// precedence over earlier ones.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - EndpointURL: the single GraphQL endpoint of the receipt service.
//   - RequestTimeout: upper bound for one outbound request.
//   - StateDir: directory for durable client state (empty means the per-user
//     default, resolved by the caller).
//   - LogLevel: zap level name (debug, info, warn, error).
type Config struct {
	EndpointURL    string
	RequestTimeout time.Duration
	StateDir       string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.EndpointURL = "http://localhost:4000/graphql"
	c.RequestTimeout = 30 * time.Second
	c.StateDir = ""
	c.LogLevel = "info"
}

// Load constructs a Config from all sources using the process arguments.
func Load() (*Config, error) {
	return LoadFromArgs(os.Args[1:])
}

// LoadFromArgs is Load with an explicit argument list (test seam).
func LoadFromArgs(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	values, set, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	if values.configFile != "" {
		if err := applyJSON(cfg, values.configFile); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	applyFlags(cfg, values, set)

	return cfg, nil
}
