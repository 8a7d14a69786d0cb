package escrow

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/decentpay/escrowkit/internal/envelope"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// GetUserEscrows lists the escrow ids a user participates in.
func (s *Service) GetUserEscrows(ctx context.Context, user string) ([]uint32, error) {
	if err := requireAccount("user", user); err != nil {
		return nil, err
	}

	raw, err := s.caller.Read(ctx, "get_user_escrows", []envelope.Val{addrVal(user)})
	if err != nil {
		return nil, err
	}

	var ids []uint32
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("escrow: decode user escrows: %w", err)
	}
	return ids, nil
}

// GetCompletedEscrows returns a user's completed-escrow count.
func (s *Service) GetCompletedEscrows(ctx context.Context, user string) (uint32, error) {
	if err := requireAccount("user", user); err != nil {
		return 0, err
	}

	raw, err := s.caller.Read(ctx, "get_completed_escrows", []envelope.Val{addrVal(user)})
	if err != nil {
		return 0, err
	}

	var count uint32
	if err := json.Unmarshal(raw, &count); err != nil {
		return 0, fmt.Errorf("escrow: decode completed escrows: %w", err)
	}
	return count, nil
}

// GetAverageRating returns a freelancer's aggregate rating. The
// contract stores it as a (total, count) pair.
func (s *Service) GetAverageRating(ctx context.Context, freelancer string) (RatingSummary, error) {
	if err := requireAccount("freelancer", freelancer); err != nil {
		return RatingSummary{}, err
	}

	raw, err := s.caller.Read(ctx, "get_average_rating", []envelope.Val{addrVal(freelancer)})
	if err != nil {
		return RatingSummary{}, err
	}

	var pair [2]uint32
	if err := json.Unmarshal(raw, &pair); err != nil {
		return RatingSummary{}, fmt.Errorf("escrow: decode average rating: %w", err)
	}
	return RatingSummary{Total: pair[0], Count: pair[1]}, nil
}

// GetBadge returns a freelancer's experience tier.
func (s *Service) GetBadge(ctx context.Context, freelancer string) (Badge, error) {
	if err := requireAccount("freelancer", freelancer); err != nil {
		return "", err
	}

	raw, err := s.caller.Read(ctx, "get_badge", []envelope.Val{addrVal(freelancer)})
	if err != nil {
		return "", err
	}

	var badge Badge
	if err := json.Unmarshal(raw, &badge); err != nil {
		return "", fmt.Errorf("escrow: decode badge: %w", err)
	}
	return badge, nil
}

// GetApplication fetches one freelancer's application to a job, or nil
// when none exists.
func (s *Service) GetApplication(ctx context.Context, id uint32, freelancer string) (*Application, error) {
	if err := requireAccount("freelancer", freelancer); err != nil {
		return nil, err
	}

	raw, err := s.caller.Read(ctx, "get_application", []envelope.Val{envelope.U32(id), addrVal(freelancer)})
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}

	var app Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, fmt.Errorf("escrow: decode application: %w", err)
	}
	return &app, nil
}

// GetOwner returns the contract owner's address.
func (s *Service) GetOwner(ctx context.Context) (string, error) {
	raw, err := s.caller.Read(ctx, "get_owner", nil)
	if err != nil {
		return "", err
	}

	var owner string
	if err := json.Unmarshal(raw, &owner); err != nil {
		return "", fmt.Errorf("escrow: decode owner: %w", err)
	}
	return owner, nil
}

// GetPlatformFeeBP returns the platform fee in basis points.
func (s *Service) GetPlatformFeeBP(ctx context.Context) (uint32, error) {
	raw, err := s.caller.Read(ctx, "get_platform_fee_bp", nil)
	if err != nil {
		return 0, err
	}

	var bp uint32
	if err := json.Unmarshal(raw, &bp); err != nil {
		return 0, fmt.Errorf("escrow: decode platform fee: %w", err)
	}
	return bp, nil
}

// GetFeeCollector returns the fee collector address.
func (s *Service) GetFeeCollector(ctx context.Context) (string, error) {
	raw, err := s.caller.Read(ctx, "get_fee_collector", nil)
	if err != nil {
		return "", err
	}

	var collector string
	if err := json.Unmarshal(raw, &collector); err != nil {
		return "", fmt.Errorf("escrow: decode fee collector: %w", err)
	}
	return collector, nil
}

// CalculateFee asks the contract what platform fee an amount incurs.
func (s *Service) CalculateFee(ctx context.Context, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, amountErr("amount must be positive")
	}

	raw, err := s.caller.Read(ctx, "calculate_fee", []envelope.Val{envelope.I128(amount)})
	if err != nil {
		return nil, err
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("escrow: decode fee: %w", err)
	}
	return parseAmount("fee", encoded)
}

// IsWhitelistedToken reports whether a token is accepted for escrows.
func (s *Service) IsWhitelistedToken(ctx context.Context, token string) (bool, error) {
	if !assetPattern.MatchString(token) {
		return false, ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrInvalidAddress, "malformed token address"),
			map[string]string{"field": "token", "address": token},
		)
	}
	return s.readBool(ctx, "is_whitelisted_token", []envelope.Val{addrVal(token)})
}

// IsAuthorizedArbiter reports whether an address may arbitrate.
func (s *Service) IsAuthorizedArbiter(ctx context.Context, arbiter string) (bool, error) {
	if err := requireAccount("arbiter", arbiter); err != nil {
		return false, err
	}
	return s.readBool(ctx, "is_authorized_arbiter", []envelope.Val{addrVal(arbiter)})
}

// IsJobCreationPaused reports whether new job creation is paused.
func (s *Service) IsJobCreationPaused(ctx context.Context) (bool, error) {
	return s.readBool(ctx, "is_job_creation_paused", nil)
}

func (s *Service) readBool(ctx context.Context, method string, args []envelope.Val) (bool, error) {
	raw, err := s.caller.Read(ctx, method, args)
	if err != nil {
		return false, err
	}

	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, fmt.Errorf("escrow: decode %s: %w", method, err)
	}
	return value, nil
}
