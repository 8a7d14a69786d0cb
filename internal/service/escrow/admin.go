package escrow

import (
	"context"
	"fmt"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// MaxPlatformFeeBP is the contract's fee ceiling: 10% in basis points.
const MaxPlatformFeeBP = 1000

// ValidatePlatformFee enforces the fee ceiling locally.
func ValidatePlatformFee(feeBP uint32) error {
	if feeBP > MaxPlatformFeeBP {
		return validationErr("platform fee exceeds the 10% ceiling", map[string]string{
			"fee_bp": fmt.Sprint(feeBP),
			"max":    fmt.Sprint(MaxPlatformFeeBP),
		})
	}
	return nil
}

// Initialize sets the contract's owner, fee collector, and platform
// fee. The contract rejects a second initialization.
func (s *Service) Initialize(ctx context.Context, owner, feeCollector string, platformFeeBP uint32) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	if err := requireAccount("fee_collector", feeCollector); err != nil {
		return nil, err
	}
	if err := ValidatePlatformFee(platformFeeBP); err != nil {
		return nil, err
	}

	args := []envelope.Val{addrVal(owner), addrVal(feeCollector), envelope.U32(platformFeeBP)}
	return s.caller.Write(ctx, "initialize", args, owner)
}

// SetOwner transfers contract ownership. The current owner signs.
func (s *Service) SetOwner(ctx context.Context, owner, newOwner string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	if err := requireAccount("new_owner", newOwner); err != nil {
		return nil, err
	}
	return s.caller.Write(ctx, "set_owner", []envelope.Val{addrVal(newOwner)}, owner)
}

// SetPlatformFeeBP updates the platform fee.
func (s *Service) SetPlatformFeeBP(ctx context.Context, owner string, feeBP uint32) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	if err := ValidatePlatformFee(feeBP); err != nil {
		return nil, err
	}
	return s.caller.Write(ctx, "set_platform_fee_bp", []envelope.Val{envelope.U32(feeBP)}, owner)
}

// SetFeeCollector updates the fee collector address.
func (s *Service) SetFeeCollector(ctx context.Context, owner, collector string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	if err := requireAccount("fee_collector", collector); err != nil {
		return nil, err
	}
	return s.caller.Write(ctx, "set_fee_collector", []envelope.Val{addrVal(collector)}, owner)
}

// WhitelistToken accepts a token for escrow payments.
func (s *Service) WhitelistToken(ctx context.Context, owner, token string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	if !assetPattern.MatchString(token) {
		return nil, ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrInvalidAddress, "malformed token address"),
			map[string]string{"field": "token", "address": token},
		)
	}
	tokenVal, _ := envelope.Address(token)
	return s.caller.Write(ctx, "whitelist_token", []envelope.Val{tokenVal}, owner)
}

// AuthorizeArbiter adds an address to the arbiter allow list.
func (s *Service) AuthorizeArbiter(ctx context.Context, owner, arbiter string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	if err := requireAccount("arbiter", arbiter); err != nil {
		return nil, err
	}
	return s.caller.Write(ctx, "authorize_arbiter", []envelope.Val{addrVal(arbiter)}, owner)
}

// PauseJobCreation stops new job creation.
func (s *Service) PauseJobCreation(ctx context.Context, owner string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	return s.caller.Write(ctx, "pause_job_creation", nil, owner)
}

// UnpauseJobCreation resumes new job creation.
func (s *Service) UnpauseJobCreation(ctx context.Context, owner string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("owner", owner); err != nil {
		return nil, err
	}
	return s.caller.Write(ctx, "unpause_job_creation", nil, owner)
}
