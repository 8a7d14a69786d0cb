package escrow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

func TestInitializeValidatesFeeCeiling(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{}
	svc := NewService(caller)

	_, err := svc.Initialize(context.Background(), testDepositor, testArbiter, 1001)
	require.ErrorIs(t, err, ekerr.ErrValidationFailed)
	assert.Equal(t, int64(0), caller.writeCalls.Load())

	_, err = svc.Initialize(context.Background(), testDepositor, testArbiter, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(1), caller.writeCalls.Load())
}

func TestSetOwnerSignsAsCurrentOwner(t *testing.T) {
	t.Parallel()

	var gotSigner string
	var gotArgs []envelope.Val
	caller := &mockCaller{
		writeFunc: func(_ context.Context, method string, args []envelope.Val, signer string) (*soroban.SubmissionReceipt, error) {
			require.Equal(t, "set_owner", method)
			gotSigner = signer
			gotArgs = args
			return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusSuccess}, nil
		},
	}
	svc := NewService(caller)

	_, err := svc.SetOwner(context.Background(), testDepositor, testArbiter)
	require.NoError(t, err)
	assert.Equal(t, testDepositor, gotSigner, "the current owner authorizes the transfer")
	require.Len(t, gotArgs, 1)
}

func TestSetPlatformFeeBPBounds(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{}
	svc := NewService(caller)

	_, err := svc.SetPlatformFeeBP(context.Background(), testDepositor, MaxPlatformFeeBP+1)
	require.ErrorIs(t, err, ekerr.ErrValidationFailed)

	_, err = svc.SetPlatformFeeBP(context.Background(), testDepositor, MaxPlatformFeeBP)
	require.NoError(t, err)
}

func TestWhitelistTokenRejectsMalformedAddress(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{}
	svc := NewService(caller)

	_, err := svc.WhitelistToken(context.Background(), testDepositor, "not-a-token")
	require.ErrorIs(t, err, ekerr.ErrInvalidAddress)
	assert.Equal(t, int64(0), caller.writeCalls.Load())
}

func TestPauseUnpauseJobCreation(t *testing.T) {
	t.Parallel()

	var methods []string
	caller := &mockCaller{
		writeFunc: func(_ context.Context, method string, args []envelope.Val, _ string) (*soroban.SubmissionReceipt, error) {
			methods = append(methods, method)
			assert.Empty(t, args)
			return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusSuccess}, nil
		},
	}
	svc := NewService(caller)

	_, err := svc.PauseJobCreation(context.Background(), testDepositor)
	require.NoError(t, err)
	_, err = svc.UnpauseJobCreation(context.Background(), testDepositor)
	require.NoError(t, err)
	assert.Equal(t, []string{"pause_job_creation", "unpause_job_creation"}, methods)
}
