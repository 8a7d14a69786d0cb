// Package signer defines the bridge to the external signing agent. The
// orchestrator never touches key material: whole envelopes and
// individual authorization entries go out as opaque serialized blobs and
// come back signed, or rejected by the human operator.
package signer

import (
	"context"
	"strings"

	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/metrics"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// SignOpts identifies the signing identity and network for an envelope
// signature.
type SignOpts struct {
	Address string
	Network string
}

// Bridge is the external signing agent. Both operations are interactive
// and may be rejected by the operator; rejection surfaces through
// IsRejection, never as a generic failure.
type Bridge interface {
	// SignAuthEntry signs one authorization entry for the given signer
	// identity and returns the signed copy.
	SignAuthEntry(ctx context.Context, entry envelope.AuthorizationEntry, signerAddress string) (envelope.AuthorizationEntry, error)

	// SignTransaction signs a serialized envelope payload.
	SignTransaction(ctx context.Context, envelopeBytes []byte, opts SignOpts) ([]byte, error)
}

// rejectionPhrases are the known textual signals of operator rejection.
var rejectionPhrases = []string{
	"rejected",
	"denied",
	"declined",
	"user closed",
	"cancelled by user",
	"canceled by user",
}

// rejectionCodes are the known numeric signals of operator rejection.
var rejectionCodes = map[int]bool{
	4001: true, // provider standard: userRejectedRequest
	-4:   true, // legacy agent rejection code
}

// coded is implemented by bridge errors that carry a numeric code.
type coded interface {
	Code() int
}

// RejectionError is a convenience error type for bridge implementations.
type RejectionError struct {
	Reason string
	code   int
}

// NewRejectionError builds a rejection error with the given code.
func NewRejectionError(reason string, code int) *RejectionError {
	return &RejectionError{Reason: reason, code: code}
}

func (e *RejectionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "request rejected"
}

// Code returns the numeric rejection code.
func (e *RejectionError) Code() int { return e.code }

// IsRejection reports whether an error is a rejection-flavored signal
// from the signing agent, by known phrase or numeric code.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}

	var c coded
	if ekerr.As(err, &c) && rejectionCodes[c.Code()] {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range rejectionPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// SignAuthEntries dispatches entry signing concurrently. Entries are
// independent, but all must resolve before the envelope can be
// finalized; the first error wins and the result order matches the
// input order.
func SignAuthEntries(ctx context.Context, bridge Bridge, entries []envelope.AuthorizationEntry, signerAddress string) ([]envelope.AuthorizationEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	signed := make([]envelope.AuthorizationEntry, len(entries))
	errs := make([]error, len(entries))
	done := make(chan int, len(entries))

	for i, entry := range entries {
		go func(i int, entry envelope.AuthorizationEntry) {
			signed[i], errs[i] = bridge.SignAuthEntry(ctx, entry, signerAddress)
			done <- i
		}(i, entry)
	}

	for range entries {
		<-done
	}

	for _, err := range errs {
		if err != nil {
			metrics.Global.RecordSignerPrompt(IsRejection(err))
			return nil, err
		}
	}
	metrics.Global.RecordSignerPrompt(false)
	return signed, nil
}
