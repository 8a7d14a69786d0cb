package invoke

import (
	"context"
	"time"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/metrics"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Confirmation polling defaults: one-second interval, thirty attempts.
const (
	DefaultConfirmInterval = time.Second
	DefaultMaxAttempts     = 30
)

// ConfirmOpts tunes the finality poll.
type ConfirmOpts struct {
	Interval    time.Duration
	MaxAttempts int
}

func (o ConfirmOpts) withDefaults() ConfirmOpts {
	if o.Interval <= 0 {
		o.Interval = DefaultConfirmInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

// StatusFunc fetches the current status of a submitted transaction.
type StatusFunc func(ctx context.Context, hash string) (*soroban.SubmissionReceipt, error)

// Confirm polls a submission until it reaches a terminal status or the
// attempt ceiling. Hitting the ceiling NEVER reports success: the
// outcome is Unknown and the caller gets SUBMISSION_TIMED_OUT with the
// hash so the transaction can be reconciled later.
func Confirm(ctx context.Context, fetch StatusFunc, hash string, opts ConfirmOpts) (*soroban.SubmissionReceipt, error) {
	opts = opts.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		receipt, err := fetch(ctx, hash)
		if err != nil {
			// Transient poll failures burn an attempt but do not abort:
			// the transaction may still land.
			lastErr = err
		} else {
			switch receipt.Status {
			case soroban.StatusSuccess, soroban.StatusError:
				receipt.Attempts = attempt
				if receipt.Status == soroban.StatusSuccess {
					metrics.Global.RecordConfirmation()
				}
				return receipt, nil
			case soroban.StatusPending, soroban.StatusUnknown:
				// keep polling
			}
		}

		if attempt == opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return timedOut(hash, attempt, ctx.Err())
		case <-time.After(opts.Interval):
		}
	}

	return timedOut(hash, opts.MaxAttempts, lastErr)
}

func timedOut(hash string, attempts int, cause error) (*soroban.SubmissionReceipt, error) {
	metrics.Global.RecordPollTimeout()

	receipt := &soroban.SubmissionReceipt{
		Hash:     hash,
		Status:   soroban.StatusUnknown,
		Attempts: attempts,
	}
	err := ekerr.WithCause(ekerr.ErrSubmissionTimedOut, cause)
	err = ekerr.WithDetails(err, map[string]string{"hash": hash})
	err = ekerr.WithSuggestion(err,
		"The transaction may still confirm. Check its status later with the hash above.")
	return receipt, err
}
