package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "ESCROWKIT_HOME"
	EnvEndpoint     = "ESCROWKIT_RPC"
	EnvPassphrase   = "ESCROWKIT_NETWORK"
	EnvContractID   = "ESCROWKIT_CONTRACT"
	EnvEventsURL    = "ESCROWKIT_EVENTS_URL"
	EnvOutputFormat = "ESCROWKIT_OUTPUT_FORMAT"
	EnvVerbose      = "ESCROWKIT_VERBOSE"
	EnvLogLevel     = "ESCROWKIT_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Network.Endpoint = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvPassphrase); v != "" {
		cfg.Network.Passphrase = v
	}

	if v := os.Getenv(EnvContractID); v != "" {
		cfg.Contract.ID = strings.ToUpper(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvEventsURL); v != "" {
		cfg.Events.Driver = "nats"
		cfg.Events.URL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
