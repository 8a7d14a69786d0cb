package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/signer"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// initGlobals mutates package state, so tests touching it stay serial.

func TestInitGlobalsUsesDefaultsWhenConfigMissing(t *testing.T) {
	t.Setenv("ESCROWKIT_HOME", t.TempDir())

	require.NoError(t, initGlobals())
	t.Cleanup(cleanup)

	require.NotNil(t, cfg)
	assert.Equal(t, "https://soroban-testnet.stellar.org", cfg.Network.Endpoint)
	require.NotNil(t, formatter)
	require.NotNil(t, logger)
}

func TestInitGlobalsEnvironmentOverride(t *testing.T) {
	t.Setenv("ESCROWKIT_HOME", t.TempDir())
	t.Setenv("ESCROWKIT_RPC", "https://rpc.example.com")

	require.NoError(t, initGlobals())
	t.Cleanup(cleanup)

	assert.Equal(t, "https://rpc.example.com", cfg.Network.Endpoint)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))
	assert.NotEqual(t, 0, ExitCode(ekerr.ErrValidationFailed))
}

func TestParseEscrowID(t *testing.T) {
	t.Parallel()

	id, err := parseEscrowID("42")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)

	_, err = parseEscrowID("not-a-number")
	require.ErrorIs(t, err, ekerr.ErrValidationFailed)

	_, err = parseEscrowID("-1")
	require.ErrorIs(t, err, ekerr.ErrValidationFailed)
}

func TestNoSignerRejectsSigning(t *testing.T) {
	t.Parallel()

	var bridge signer.Bridge = noSigner{}

	_, err := bridge.SignAuthEntry(context.Background(), envelope.AuthorizationEntry{}, "G...")
	require.ErrorIs(t, err, ekerr.ErrSignerAddressRequired)

	_, err = bridge.SignTransaction(context.Background(), []byte("payload"), signer.SignOpts{})
	require.ErrorIs(t, err, ekerr.ErrSignerAddressRequired)
}
