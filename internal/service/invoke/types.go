package invoke

import (
	"encoding/json"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
)

// Request is one write invocation.
type Request struct {
	Method        string
	Args          []envelope.Val
	SignerAddress string
}

// Result is the outcome of a finalized invocation.
type Result struct {
	Hash        string
	Status      soroban.Status
	Attempts    int
	ReturnValue json.RawMessage
	Receipt     *soroban.SubmissionReceipt
}
