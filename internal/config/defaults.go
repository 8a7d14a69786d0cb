package config

// DefaultEndpoint is the default Soroban RPC endpoint (testnet).
const DefaultEndpoint = "https://soroban-testnet.stellar.org"

// DefaultPassphrase is the default network passphrase (testnet).
const DefaultPassphrase = "Test SDF Network ; September 2015"

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.escrowkit",
		Network: NetworkConfig{
			Endpoint:       DefaultEndpoint,
			Passphrase:     DefaultPassphrase,
			BaseFee:        100,
			TimeoutSeconds: 30,
		},
		Contract: ContractConfig{
			ID: "",
		},
		Confirmation: ConfirmationConfig{
			IntervalSeconds: 1,
			MaxAttempts:     30,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Journal: JournalConfig{
			Path: "~/.escrowkit/journal",
		},
		Events: EventsConfig{
			Driver:  "none",
			URL:     "",
			Subject: "escrowkit.events",
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.escrowkit/escrowkit.log",
		},
	}
}
