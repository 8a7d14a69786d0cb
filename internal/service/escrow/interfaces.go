package escrow

import (
	"context"
	"encoding/json"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
)

// Caller executes contract calls on behalf of the typed operations.
// Read resolves by simulation alone; Write runs the full
// build/simulate/sign/submit/confirm pipeline.
type Caller interface {
	Read(ctx context.Context, method string, args []envelope.Val) (json.RawMessage, error)
	Write(ctx context.Context, method string, args []envelope.Val, signerAddress string) (*soroban.SubmissionReceipt, error)
}
