package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEnvironment(t *testing.T) {
	t.Setenv(EnvEndpoint, " https://rpc.example.com ")
	t.Setenv(EnvContractID, "cdlzfc3syjydzt7k67vz75hpjvieuvnixf47zg2fb2rmqqvu2hhgcysc")
	t.Setenv(EnvEventsURL, "nats://127.0.0.1:4222")
	t.Setenv(EnvVerbose, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := Defaults()
	ApplyEnvironment(cfg)

	assert.Equal(t, "https://rpc.example.com", cfg.Network.Endpoint)
	assert.Equal(t, "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC", cfg.Contract.ID)
	assert.Equal(t, "nats", cfg.Events.Driver)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.URL)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironmentNoColor(t *testing.T) {
	t.Setenv(EnvNoColor, "1")

	cfg := Defaults()
	ApplyEnvironment(cfg)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("Yes"))
	assert.True(t, parseBool("on"))
	assert.True(t, parseBool("true"))
	assert.False(t, parseBool("no"))
	assert.False(t, parseBool(""))
}
