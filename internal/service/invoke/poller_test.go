package invoke

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

func fastOpts(maxAttempts int) ConfirmOpts {
	return ConfirmOpts{Interval: time.Millisecond, MaxAttempts: maxAttempts}
}

func TestConfirmSuccessAfterPending(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(context.Context, string) (*soroban.SubmissionReceipt, error) {
		calls++
		if calls < 3 {
			return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusPending}, nil
		}
		return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusSuccess}, nil
	}

	receipt, err := Confirm(context.Background(), fetch, "h", fastOpts(30))
	require.NoError(t, err)
	assert.Equal(t, soroban.StatusSuccess, receipt.Status)
	assert.Equal(t, 3, receipt.Attempts)
}

func TestConfirmErrorIsTerminal(t *testing.T) {
	t.Parallel()

	fetch := func(context.Context, string) (*soroban.SubmissionReceipt, error) {
		return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusError, ErrorMessage: "failed"}, nil
	}

	receipt, err := Confirm(context.Background(), fetch, "h", fastOpts(30))
	require.NoError(t, err)
	assert.Equal(t, soroban.StatusError, receipt.Status)
	assert.Equal(t, 1, receipt.Attempts)
}

func TestConfirmCeilingNeverReportsSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(context.Context, string) (*soroban.SubmissionReceipt, error) {
		calls++
		return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusPending}, nil
	}

	receipt, err := Confirm(context.Background(), fetch, "h", fastOpts(5))
	require.ErrorIs(t, err, ekerr.ErrSubmissionTimedOut)
	assert.Equal(t, soroban.StatusUnknown, receipt.Status)
	assert.Equal(t, 5, receipt.Attempts)
	assert.Equal(t, 5, calls, "exactly the ceiling, no extra poll")
}

func TestConfirmTransientErrorsDoNotAbort(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(context.Context, string) (*soroban.SubmissionReceipt, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusSuccess}, nil
	}

	receipt, err := Confirm(context.Background(), fetch, "h", fastOpts(30))
	require.NoError(t, err)
	assert.Equal(t, soroban.StatusSuccess, receipt.Status)
	assert.Equal(t, 2, receipt.Attempts)
}

func TestConfirmContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(context.Context, string) (*soroban.SubmissionReceipt, error) {
		cancel()
		return &soroban.SubmissionReceipt{Hash: "h", Status: soroban.StatusPending}, nil
	}

	receipt, err := Confirm(ctx, fetch, "h", ConfirmOpts{Interval: time.Minute, MaxAttempts: 30})
	require.ErrorIs(t, err, ekerr.ErrSubmissionTimedOut)
	assert.Equal(t, soroban.StatusUnknown, receipt.Status)
}

func TestConfirmDefaults(t *testing.T) {
	t.Parallel()

	opts := ConfirmOpts{}.withDefaults()
	assert.Equal(t, time.Second, opts.Interval)
	assert.Equal(t, 30, opts.MaxAttempts)
}
