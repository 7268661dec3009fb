package config

import (
	"flag"
	"io"
	"time"
)

// flagValues carries raw flag inputs before they are applied to Config.
type flagValues struct {
	endpoint   string
	timeoutSec int
	stateDir   string
	logLevel   string
	configFile string
}

// parseFlags parses the supported flags and reports which were explicitly
// set, so flag values can override the JSON/env layers without clobbering
// them with zero values.
//
// Supported flags:
//
//	-e string          GraphQL endpoint URL
//	-t int             request timeout in seconds
//	-d string          state directory
//	-l string          log level
//	-c / -config path  JSON config file
func parseFlags(args []string) (*flagValues, map[string]bool, error) {
	v := &flagValues{}

	fs := flag.NewFlagSet("receiptscan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&v.endpoint, "e", "", "GraphQL endpoint URL of the receipt service")
	fs.IntVar(&v.timeoutSec, "t", 0, "request timeout (in seconds)")
	fs.StringVar(&v.stateDir, "d", "", "directory for durable client state")
	fs.StringVar(&v.logLevel, "l", "", "log level (debug, info, warn, error)")
	fs.StringVar(&v.configFile, "c", "", "path to JSON config file")
	fs.StringVar(&v.configFile, "config", "", "path to JSON config file (long form)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return v, set, nil
}

// applyFlags overlays explicitly-set flag values onto cfg.
func applyFlags(cfg *Config, v *flagValues, set map[string]bool) {
	if set["e"] {
		cfg.EndpointURL = v.endpoint
	}
	if set["t"] {
		cfg.RequestTimeout = time.Duration(v.timeoutSec) * time.Second
	}
	if set["d"] {
		cfg.StateDir = v.stateDir
	}
	if set["l"] {
		cfg.LogLevel = v.logLevel
	}
}
