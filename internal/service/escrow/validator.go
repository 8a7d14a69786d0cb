package escrow

import (
	"fmt"
	"math/big"
	"regexp"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Validation bounds enforced by the contract; checking them locally
// rejects bad requests before any network call.
const (
	MinDurationSeconds = 3600     // 1 hour
	MaxDurationSeconds = 31536000 // 365 days
	MaxMilestones      = 20
	MaxArbiters        = 5
	MinRating          = 1
	MaxRating          = 5
)

var (
	accountPattern = regexp.MustCompile(`^G[A-Z2-7]{55}$`)
	assetPattern   = regexp.MustCompile(`^[GC][A-Z2-7]{55}$`)
)

// ValidAccount reports whether s is a well-formed account address.
func ValidAccount(s string) bool {
	return accountPattern.MatchString(s)
}

func requireAccount(field, addr string) error {
	if !ValidAccount(addr) {
		return ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrInvalidAddress, "malformed account address"),
			map[string]string{"field": field, "address": addr},
		)
	}
	return nil
}

// CreateEscrowParams are the inputs to create_escrow.
type CreateEscrowParams struct {
	Depositor             string
	Beneficiary           string // empty for an open job
	Arbiters              []string
	RequiredConfirmations uint32
	MilestoneAmounts      []*big.Int
	MilestoneDescriptions []string
	Token                 string // empty for native asset
	TotalAmount           *big.Int
	DurationSeconds       uint32
	ProjectTitle          string
	ProjectDescription    string
}

// Validate enforces the contract's creation rules locally. A request
// that fails here never reaches the network.
func (p *CreateEscrowParams) Validate() error {
	if err := requireAccount("depositor", p.Depositor); err != nil {
		return err
	}
	if p.Beneficiary != "" {
		if err := requireAccount("beneficiary", p.Beneficiary); err != nil {
			return err
		}
	}
	for i, arbiter := range p.Arbiters {
		if err := requireAccount(fmt.Sprintf("arbiters[%d]", i), arbiter); err != nil {
			return err
		}
	}

	if len(p.Arbiters) > MaxArbiters {
		return validationErr("too many arbiters", map[string]string{
			"arbiters": fmt.Sprint(len(p.Arbiters)),
			"max":      fmt.Sprint(MaxArbiters),
		})
	}
	if int(p.RequiredConfirmations) > len(p.Arbiters) {
		return validationErr("required confirmations exceed arbiter count", map[string]string{
			"confirmations": fmt.Sprint(p.RequiredConfirmations),
			"arbiters":      fmt.Sprint(len(p.Arbiters)),
		})
	}

	if len(p.MilestoneAmounts) == 0 {
		return validationErr("at least one milestone is required", nil)
	}
	if len(p.MilestoneAmounts) > MaxMilestones {
		return validationErr("too many milestones", map[string]string{
			"milestones": fmt.Sprint(len(p.MilestoneAmounts)),
			"max":        fmt.Sprint(MaxMilestones),
		})
	}
	if len(p.MilestoneAmounts) != len(p.MilestoneDescriptions) {
		return validationErr("milestone amounts and descriptions differ in length", map[string]string{
			"amounts":      fmt.Sprint(len(p.MilestoneAmounts)),
			"descriptions": fmt.Sprint(len(p.MilestoneDescriptions)),
		})
	}

	if p.Token != "" && !assetPattern.MatchString(p.Token) {
		return ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrInvalidAddress, "malformed token address"),
			map[string]string{"field": "token", "address": p.Token},
		)
	}

	if p.TotalAmount == nil || p.TotalAmount.Sign() <= 0 {
		return amountErr("total amount must be positive")
	}

	sum := new(big.Int)
	for i, amount := range p.MilestoneAmounts {
		if amount == nil || amount.Sign() <= 0 {
			return amountErr(fmt.Sprintf("milestone %d amount must be positive", i))
		}
		sum.Add(sum, amount)
	}
	if sum.Cmp(p.TotalAmount) != 0 {
		return validationErr("milestone amounts must sum to the total", map[string]string{
			"sum":   sum.String(),
			"total": p.TotalAmount.String(),
		})
	}

	if p.DurationSeconds < MinDurationSeconds || p.DurationSeconds > MaxDurationSeconds {
		return validationErr("duration is out of range", map[string]string{
			"duration": fmt.Sprint(p.DurationSeconds),
			"min":      fmt.Sprint(MinDurationSeconds),
			"max":      fmt.Sprint(MaxDurationSeconds),
		})
	}

	return nil
}

// GuardMilestoneTransition rejects milestone operations whose current
// state already rules them out, without a network round trip.
func GuardMilestoneTransition(method string, status MilestoneStatus) error {
	var ok bool
	switch method {
	case "submit_milestone":
		ok = status.CanSubmit()
	case "resubmit_milestone":
		ok = status.CanResubmit()
	case "approve_milestone", "reject_milestone", "dispute_milestone":
		ok = status.CanReview()
	default:
		return nil
	}

	if !ok {
		return ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrMilestoneState, "milestone state does not allow this operation"),
			map[string]string{"method": method, "status": string(status)},
		)
	}
	return nil
}

// ValidateRating enforces the 1..5 rating bounds locally.
func ValidateRating(score uint32) error {
	if score < MinRating || score > MaxRating {
		return validationErr("rating must be between 1 and 5", map[string]string{
			"rating": fmt.Sprint(score),
		})
	}
	return nil
}

func validationErr(msg string, details map[string]string) error {
	err := ekerr.Wrap(ekerr.ErrValidationFailed, msg)
	if len(details) > 0 {
		err = ekerr.WithDetails(err, details)
	}
	return err
}

func amountErr(msg string) error {
	return ekerr.Wrap(ekerr.ErrInvalidAmount, msg)
}
