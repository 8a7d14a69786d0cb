package soroban

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/decentpay/escrowkit/internal/envelope"
)

// NetworkProfile identifies one RPC environment. The network identifier
// string distinguishes test and main networks and is folded into every
// envelope's signing payload.
type NetworkProfile struct {
	Endpoint string
	Network  string
	BaseFee  uint64
	Timeout  time.Duration
}

// Account is the orchestrator's view of an on-ledger account. The
// sequence number must be freshly fetched immediately before each build;
// stale values cause rejection.
type Account struct {
	Address  string
	Sequence uint64
	Balance  *big.Int
}

// Status is the normalized terminal state of a submission.
type Status string

// Submission states.
const (
	StatusSuccess Status = "SUCCESS"
	StatusPending Status = "PENDING"
	StatusError   Status = "ERROR"
	StatusUnknown Status = "UNKNOWN" // poll ceiling reached while still pending
)

// SubmissionReceipt is the uniform result of submit and status calls.
type SubmissionReceipt struct {
	Hash         string
	Status       Status
	ErrorPayload json.RawMessage
	ErrorMessage string
	Attempts     int
}

// OpResult is the per-operation slice of a simulation result. Manual
// construction paths report required authorization here rather than at
// the top level.
type OpResult struct {
	Auth        []envelope.AuthorizationEntry `json:"auth,omitempty"`
	ReturnValue json.RawMessage               `json:"return_value,omitempty"`
}

// SimulationResult is the uniform tagged outcome of a dry run. Callers
// never probe error shapes: OK is false exactly when the call would
// fail, and ErrorMessage already holds the most specific message the
// payload allowed.
type SimulationResult struct {
	OK           bool
	ErrorMessage string
	ErrorPayload json.RawMessage
	RequiredAuth []envelope.AuthorizationEntry
	Results      []OpResult
	ReturnValue  json.RawMessage
	ResourceFee  uint64
	Events       []string
}

// TopLevelAuth implements envelope.AuthSource.
func (s *SimulationResult) TopLevelAuth() []envelope.AuthorizationEntry {
	if s == nil {
		return nil
	}
	return s.RequiredAuth
}

// OperationAuth implements envelope.AuthSource.
func (s *SimulationResult) OperationAuth() [][]envelope.AuthorizationEntry {
	if s == nil {
		return nil
	}
	out := make([][]envelope.AuthorizationEntry, 0, len(s.Results))
	for _, r := range s.Results {
		out = append(out, r.Auth)
	}
	return out
}
