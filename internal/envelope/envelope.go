// Package envelope builds and finalizes unsigned transaction envelopes
// for contract invocations. An envelope carries a single operation, fee,
// and time bounds; fee substitution after simulation always produces a
// new envelope because the fee is part of the signed payload.
package envelope

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Defaults applied by Build when the caller does not override them.
const (
	DefaultBaseFee = uint64(100)
	DefaultTimeout = 30 * time.Second
)

// TimeBounds is the validity window of an envelope, in unix seconds.
type TimeBounds struct {
	MinTime int64 `json:"min_time"`
	MaxTime int64 `json:"max_time"`
}

// Operation is a single contract invocation inside an envelope.
type Operation struct {
	ContractID string               `json:"contract_id"`
	Method     string               `json:"method"`
	Args       []Val                `json:"args"`
	Auth       []AuthorizationEntry `json:"auth,omitempty"`
}

// Envelope is an unsigned (or signed) transaction envelope. Signatures
// are excluded from the signing payload.
type Envelope struct {
	Source     string      `json:"source"`
	Sequence   uint64      `json:"sequence"`
	Fee        uint64      `json:"fee"`
	Network    string      `json:"network"`
	TimeBounds TimeBounds  `json:"time_bounds"`
	Operations []Operation `json:"operations"`
	Signatures [][]byte    `json:"-"`
}

// BuildParams are the inputs for constructing an unsigned envelope.
type BuildParams struct {
	Source     string        // Submitting account address
	Sequence   uint64        // Freshly fetched account sequence number
	Network    string        // Network identifier string
	ContractID string        // Target contract
	Method     string        // Contract method name
	Args       []Val         // Encoded arguments
	BaseFee    uint64        // Defaults to DefaultBaseFee
	Timeout    time.Duration // Defaults to DefaultTimeout
}

// Build constructs an unsigned envelope with a single operation.
// The envelope consumes sequence+1, matching the network's rule of one
// sequence increment per accepted envelope.
func Build(p BuildParams) (*Envelope, error) {
	if !IsAddress(p.Source) {
		return nil, ekerr.WithDetails(ekerr.ErrInvalidAddress, map[string]string{
			"field":   "source",
			"address": p.Source,
		})
	}
	if p.ContractID == "" {
		return nil, ekerr.WithDetails(ekerr.ErrValidationFailed, map[string]string{
			"reason": "contract id is required",
		})
	}
	if p.Method == "" {
		return nil, ekerr.ErrInvalidMethod
	}

	fee := p.BaseFee
	if fee == 0 {
		fee = DefaultBaseFee
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	now := time.Now().Unix()
	return &Envelope{
		Source:   p.Source,
		Sequence: p.Sequence + 1,
		Fee:      fee,
		Network:  p.Network,
		TimeBounds: TimeBounds{
			MinTime: 0,
			MaxTime: now + int64(timeout/time.Second),
		},
		Operations: []Operation{{
			ContractID: p.ContractID,
			Method:     p.Method,
			Args:       p.Args,
		}},
	}, nil
}

// Prepare derives the final envelope from a simulated one: the actual
// resource fee replaces the default, and signed authorization entries
// attach to the operation. The result is a new envelope; the input is
// not modified. Entries signed against different time bounds are
// rejected because rebuilding invalidates them.
func (e *Envelope) Prepare(resourceFee uint64, signedAuth []AuthorizationEntry) (*Envelope, error) {
	for _, entry := range signedAuth {
		if !entry.Signed() {
			return nil, ekerr.WithDetails(ekerr.ErrAuthEntriesStale, map[string]string{
				"signer": entry.Signer,
				"reason": "entry is unsigned",
			})
		}
		if !entry.ValidFor(e) {
			return nil, ekerr.WithDetails(ekerr.ErrAuthEntriesStale, map[string]string{
				"signer": entry.Signer,
				"reason": "entry was signed for different time bounds",
			})
		}
	}

	final := &Envelope{
		Source:     e.Source,
		Sequence:   e.Sequence,
		Fee:        e.Fee + resourceFee,
		Network:    e.Network,
		TimeBounds: e.TimeBounds,
		Operations: make([]Operation, len(e.Operations)),
	}
	copy(final.Operations, e.Operations)
	if len(final.Operations) > 0 {
		final.Operations[0].Auth = signedAuth
	}
	return final, nil
}

// SigningPayload returns the canonical bytes a signer commits to.
// Signatures are not part of the payload.
func (e *Envelope) SigningPayload() ([]byte, error) {
	return json.Marshal(e)
}

// Hash returns the hex-encoded SHA-256 of the signing payload. The
// network identifier is part of the payload, so the same envelope hashes
// differently across test and main networks.
func (e *Envelope) Hash() (string, error) {
	payload, err := e.SigningPayload()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// AttachSignature appends an envelope signature.
func (e *Envelope) AttachSignature(sig []byte) {
	e.Signatures = append(e.Signatures, sig)
}
