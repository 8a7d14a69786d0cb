// Package config provides configuration management for escrowkit.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version      int                `yaml:"version"`
	Home         string             `yaml:"home"`
	Network      NetworkConfig      `yaml:"network"`
	Contract     ContractConfig     `yaml:"contract"`
	Confirmation ConfirmationConfig `yaml:"confirmation"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Journal      JournalConfig      `yaml:"journal"`
	Events       EventsConfig       `yaml:"events"`
	Output       OutputConfig       `yaml:"output"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// NetworkConfig defines RPC endpoint and network settings.
type NetworkConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Passphrase     string `yaml:"passphrase"`
	BaseFee        uint64 `yaml:"base_fee"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ContractConfig identifies the escrow contract.
type ContractConfig struct {
	ID string `yaml:"id"`
}

// ConfirmationConfig defines finality polling settings.
type ConfirmationConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	MaxAttempts     int `yaml:"max_attempts"`
}

// RateLimitConfig defines per-endpoint request throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// JournalConfig defines the local submission journal location.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// EventsConfig defines the outbound event sink.
type EventsConfig struct {
	Driver  string `yaml:"driver"` // "none" or "nats"
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

var contractIDPattern = regexp.MustCompile(`^C[A-Z2-7]{55}$`)

// Load reads configuration from the specified file and applies defaults
// for anything the file leaves unset.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ekerr.Wrap(ekerr.ErrConfigNotFound, path)
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ekerr.Wrap(ekerr.ErrConfigInvalid, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Network.Endpoint == "" {
		return ekerr.Wrap(ekerr.ErrConfigInvalid, "network.endpoint is required")
	}
	if c.Contract.ID != "" && !contractIDPattern.MatchString(c.Contract.ID) {
		return ekerr.Wrap(ekerr.ErrConfigInvalid, "contract.id is not a valid contract address")
	}
	if c.Confirmation.IntervalSeconds <= 0 {
		return ekerr.Wrap(ekerr.ErrConfigInvalid, "confirmation.interval_seconds must be positive")
	}
	if c.Confirmation.MaxAttempts <= 0 {
		return ekerr.Wrap(ekerr.ErrConfigInvalid, "confirmation.max_attempts must be positive")
	}
	return nil
}

// GetHome returns the escrowkit home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetEndpoint returns the RPC endpoint URL.
func (c *Config) GetEndpoint() string {
	return c.Network.Endpoint
}

// GetContractID returns the configured escrow contract address.
func (c *Config) GetContractID() string {
	return c.Contract.ID
}

// NetworkTimeout returns the envelope validity window as a duration.
func (c *Config) NetworkTimeout() time.Duration {
	return time.Duration(c.Network.TimeoutSeconds) * time.Second
}

// ConfirmInterval returns the poll interval as a duration.
func (c *Config) ConfirmInterval() time.Duration {
	return time.Duration(c.Confirmation.IntervalSeconds) * time.Second
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default escrowkit home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".escrowkit"
	}
	return filepath.Join(home, ".escrowkit")
}
