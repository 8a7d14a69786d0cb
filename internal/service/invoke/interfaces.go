// Package invoke orchestrates the full contract invocation pipeline:
// build an unsigned envelope, simulate it to discover required
// authorization, sign through the external bridge, submit, and poll to
// finality. Failures surface as exactly one taxonomy code, assigned
// here and nowhere else.
package invoke

import (
	"context"
	"math/big"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/journal"
)

// Connector is the network surface the pipeline needs. *soroban.Client
// satisfies it.
type Connector interface {
	GetAccount(ctx context.Context, address string) (*soroban.Account, error)
	Simulate(ctx context.Context, env *envelope.Envelope) (*soroban.SimulationResult, error)
	Submit(ctx context.Context, env *envelope.Envelope) (*soroban.SubmissionReceipt, error)
	GetStatus(ctx context.Context, hash string) (*soroban.SubmissionReceipt, error)
	RefreshBalance(ctx context.Context, address string) (*big.Int, error)
}

// Recorder persists submission receipts. *journal.Journal satisfies it.
type Recorder interface {
	Record(entry journal.Entry) error
}
