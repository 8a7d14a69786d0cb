package invoke

import (
	"context"

	"github.com/decentpay/escrowkit/internal/envelope"
	"github.com/decentpay/escrowkit/internal/service/escrow"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// InvokeRaw is the manual-construction path kept for callers that hold
// loosely typed arguments instead of encoded values. Arguments go
// through the shared encoding table, and required authorization is
// rebuilt from the per-operation simulation slices, which is where this
// construction style reports it. The submit and confirm halves are the
// same pipeline as Invoke.
func (s *Service) InvokeRaw(ctx context.Context, method string, rawArgs []any, signerAddress string) (*Result, error) {
	if _, err := escrow.LookupMethod(method); err != nil {
		return nil, classify(StageValidate, err)
	}
	if signerAddress == "" {
		return nil, classify(StageValidate, ekerr.ErrSignerAddressRequired)
	}
	if !envelope.IsAddress(signerAddress) {
		return nil, classify(StageValidate, ekerr.WithDetails(
			ekerr.ErrInvalidAddress,
			map[string]string{"address": signerAddress},
		))
	}

	args, err := envelope.EncodeArgs(rawArgs)
	if err != nil {
		return nil, classify(StageValidate, err)
	}

	s.locks.Lock(signerAddress)
	defer s.locks.Unlock(signerAddress)

	account, err := s.connector.GetAccount(ctx, signerAddress)
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	env, err := envelope.Build(envelope.BuildParams{
		Source:     signerAddress,
		Sequence:   account.Sequence,
		Network:    s.profile.Network,
		ContractID: s.contractID,
		Method:     method,
		Args:       args,
		BaseFee:    s.profile.BaseFee,
		Timeout:    s.profile.Timeout,
	})
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	sim, err := s.connector.Simulate(ctx, env)
	if err != nil {
		return nil, classify(StageSimulate, err)
	}
	if !sim.OK {
		return nil, simulationFailure(method, sim.ErrorMessage)
	}

	// Manual construction reports auth per operation, never at the top
	// level; drop the top-level view before extraction.
	opOnly := &operationAuthOnly{sim: sim}
	required := envelope.ExtractRequiredAuth(opOnly)

	signedAuth, err := s.signAuthEntries(ctx, required, signerAddress)
	if err != nil {
		return nil, err
	}

	final, err := env.Prepare(sim.ResourceFee, signedAuth)
	if err != nil {
		return nil, classify(StageBuild, err)
	}

	payload, err := final.SigningPayload()
	if err != nil {
		return nil, classify(StageBuild, err)
	}
	sig, err := s.signTransaction(ctx, payload, signerAddress)
	if err != nil {
		return nil, err
	}
	final.AttachSignature(sig)

	return s.submitAndConfirm(ctx, final, Request{
		Method:        method,
		Args:          args,
		SignerAddress: signerAddress,
	})
}

// operationAuthOnly masks the top-level auth slice of a simulation
// result.
type operationAuthOnly struct {
	sim envelope.AuthSource
}

func (o *operationAuthOnly) TopLevelAuth() []envelope.AuthorizationEntry { return nil }

func (o *operationAuthOnly) OperationAuth() [][]envelope.AuthorizationEntry {
	return o.sim.OperationAuth()
}
