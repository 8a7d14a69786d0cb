package escrow

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/decentpay/escrowkit/internal/chain/soroban"
	"github.com/decentpay/escrowkit/internal/envelope"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Service exposes the contract surface as typed operations. Reads
// resolve by simulation; writes run the full invocation pipeline
// through the injected Caller.
type Service struct {
	caller Caller
}

// NewService creates an escrow service.
func NewService(caller Caller) *Service {
	return &Service{caller: caller}
}

// addrVal encodes an already-validated address. Every operation
// validates its addresses before building arguments.
func addrVal(addr string) envelope.Val {
	v, _ := envelope.Address(addr)
	return v
}

// NextEscrowID predicts the id the next created escrow will get. A
// failed read falls back to 1 so escrow creation stays usable on a
// fresh contract or a flaky endpoint.
func (s *Service) NextEscrowID(ctx context.Context) uint32 {
	raw, err := s.caller.Read(ctx, "get_next_escrow_id", nil)
	if err != nil {
		return 1
	}

	var id uint32
	if err := json.Unmarshal(raw, &id); err != nil || id == 0 {
		return 1
	}
	return id
}

// GetEscrow fetches one escrow record.
func (s *Service) GetEscrow(ctx context.Context, id uint32) (*EscrowData, error) {
	raw, err := s.caller.Read(ctx, "get_escrow", []envelope.Val{envelope.U32(id)})
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	return decodeEscrow(id, raw)
}

// GetMilestone fetches one milestone of an escrow.
func (s *Service) GetMilestone(ctx context.Context, id, index uint32) (*Milestone, error) {
	raw, err := s.caller.Read(ctx, "get_milestone", []envelope.Val{envelope.U32(id), envelope.U32(index)})
	if err != nil {
		return nil, err
	}
	return decodeMilestone(index, raw)
}

// GetMilestones fetches every milestone of an escrow.
func (s *Service) GetMilestones(ctx context.Context, id uint32) ([]Milestone, error) {
	raw, err := s.caller.Read(ctx, "get_milestones", []envelope.Val{envelope.U32(id)})
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("escrow: decode milestones: %w", err)
	}

	milestones := make([]Milestone, 0, len(items))
	for i, item := range items {
		m, err := decodeMilestone(uint32(i), item) //nolint:gosec // G115: slice index bounded by milestone cap
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, *m)
	}
	return milestones, nil
}

// GetApplications lists applications to an open job.
func (s *Service) GetApplications(ctx context.Context, id uint32) ([]Application, error) {
	raw, err := s.caller.Read(ctx, "get_applications", []envelope.Val{envelope.U32(id)})
	if err != nil {
		return nil, err
	}

	var apps []Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		return nil, fmt.Errorf("escrow: decode applications: %w", err)
	}
	return apps, nil
}

// HasApplied reports whether an applicant already applied to a job.
func (s *Service) HasApplied(ctx context.Context, id uint32, applicant string) (bool, error) {
	if err := requireAccount("applicant", applicant); err != nil {
		return false, err
	}

	raw, err := s.caller.Read(ctx, "has_applied", []envelope.Val{envelope.U32(id), addrVal(applicant)})
	if err != nil {
		return false, err
	}

	var applied bool
	if err := json.Unmarshal(raw, &applied); err != nil {
		return false, fmt.Errorf("escrow: decode has_applied: %w", err)
	}
	return applied, nil
}

// GetRating fetches the rating of a completed escrow.
func (s *Service) GetRating(ctx context.Context, id uint32) (*Rating, error) {
	raw, err := s.caller.Read(ctx, "get_rating", []envelope.Val{envelope.U32(id)})
	if err != nil {
		return nil, err
	}

	var r Rating
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("escrow: decode rating: %w", err)
	}
	r.EscrowID = id
	return &r, nil
}

// GetReputation fetches a user's completed-escrow reputation counter.
func (s *Service) GetReputation(ctx context.Context, user string) (uint32, error) {
	if err := requireAccount("user", user); err != nil {
		return 0, err
	}

	raw, err := s.caller.Read(ctx, "get_reputation", []envelope.Val{addrVal(user)})
	if err != nil {
		return 0, err
	}

	var rep uint32
	if err := json.Unmarshal(raw, &rep); err != nil {
		return 0, fmt.Errorf("escrow: decode reputation: %w", err)
	}
	return rep, nil
}

// CreateEscrow validates and submits a create_escrow call. Validation
// failures never reach the network.
func (s *Service) CreateEscrow(ctx context.Context, p CreateEscrowParams) (*soroban.SubmissionReceipt, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// The contract folds each milestone's amount and description into
	// one (i128, String) tuple.
	milestones := make([]envelope.Val, 0, len(p.MilestoneAmounts))
	for i, amount := range p.MilestoneAmounts {
		milestones = append(milestones, envelope.Vec(
			envelope.I128(amount),
			envelope.Str(p.MilestoneDescriptions[i]),
		))
	}
	arbiters := make([]envelope.Val, 0, len(p.Arbiters))
	for _, a := range p.Arbiters {
		arbiters = append(arbiters, addrVal(a))
	}

	beneficiary := envelope.Void()
	if p.Beneficiary != "" {
		beneficiary = addrVal(p.Beneficiary)
	}
	token := envelope.Void()
	if p.Token != "" {
		token = addrVal(p.Token)
	}

	args := []envelope.Val{
		addrVal(p.Depositor),
		beneficiary,
		envelope.Vec(arbiters...),
		envelope.U32(p.RequiredConfirmations),
		envelope.Vec(milestones...),
		token,
		envelope.I128(p.TotalAmount),
		envelope.U32(p.DurationSeconds),
		envelope.Str(p.ProjectTitle),
		envelope.Str(p.ProjectDescription),
	}
	return s.caller.Write(ctx, "create_escrow", args, p.Depositor)
}

// StartWork marks an escrow as started by its beneficiary.
func (s *Service) StartWork(ctx context.Context, id uint32, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), addrVal(caller)}
	return s.caller.Write(ctx, "start_work", args, caller)
}

// SubmitMilestone submits milestone work for review. The current
// milestone state is checked first so an impossible transition fails
// locally.
func (s *Service) SubmitMilestone(ctx context.Context, id, index uint32, description, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	if err := s.guardMilestone(ctx, "submit_milestone", id, index); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(index), envelope.Str(description), addrVal(caller)}
	return s.caller.Write(ctx, "submit_milestone", args, caller)
}

// ResubmitMilestone resubmits rejected milestone work with a revised
// description.
func (s *Service) ResubmitMilestone(ctx context.Context, id, index uint32, description, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	if err := s.guardMilestone(ctx, "resubmit_milestone", id, index); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(index), envelope.Str(description), addrVal(caller)}
	return s.caller.Write(ctx, "resubmit_milestone", args, caller)
}

// ApproveMilestone approves submitted work, releasing its payment.
func (s *Service) ApproveMilestone(ctx context.Context, id, index uint32, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	if err := s.guardMilestone(ctx, "approve_milestone", id, index); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(index), addrVal(caller)}
	return s.caller.Write(ctx, "approve_milestone", args, caller)
}

// RejectMilestone rejects submitted work with a reason.
func (s *Service) RejectMilestone(ctx context.Context, id, index uint32, reason, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	if err := s.guardMilestone(ctx, "reject_milestone", id, index); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(index), envelope.Str(reason), addrVal(caller)}
	return s.caller.Write(ctx, "reject_milestone", args, caller)
}

// guardMilestone rejects milestone operations whose current state
// already rules them out. A failed read is not fatal: the chain
// re-checks the transition.
func (s *Service) guardMilestone(ctx context.Context, method string, id, index uint32) error {
	if m, err := s.GetMilestone(ctx, id, index); err == nil {
		return GuardMilestoneTransition(method, m.Status)
	}
	return nil
}

// DisputeMilestone escalates submitted work to the arbiters.
func (s *Service) DisputeMilestone(ctx context.Context, id, index uint32, reason, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	if err := s.guardMilestone(ctx, "dispute_milestone", id, index); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(index), envelope.Str(reason), addrVal(caller)}
	return s.caller.Write(ctx, "dispute_milestone", args, caller)
}

// ApplyToJob applies to an open job. The freelancer's address rides
// last in the argument list.
func (s *Service) ApplyToJob(ctx context.Context, id uint32, freelancer, coverLetter string, proposedTimeline uint32) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("freelancer", freelancer); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.Str(coverLetter), envelope.U32(proposedTimeline), addrVal(freelancer)}
	return s.caller.Write(ctx, "apply_to_job", args, freelancer)
}

// AcceptFreelancer accepts an applicant as the job's beneficiary. The
// depositor authorizes; the freelancer's address precedes theirs.
func (s *Service) AcceptFreelancer(ctx context.Context, id uint32, depositor, freelancer string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("depositor", depositor); err != nil {
		return nil, err
	}
	if err := requireAccount("freelancer", freelancer); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), addrVal(freelancer), addrVal(depositor)}
	return s.caller.Write(ctx, "accept_freelancer", args, depositor)
}

// RefundEscrow refunds the unreleased remainder to the depositor.
func (s *Service) RefundEscrow(ctx context.Context, id uint32, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), addrVal(caller)}
	return s.caller.Write(ctx, "refund_escrow", args, caller)
}

// EmergencyRefund recovers funds after the post-deadline grace period.
func (s *Service) EmergencyRefund(ctx context.Context, id uint32, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), addrVal(caller)}
	return s.caller.Write(ctx, "emergency_refund_after_deadline", args, caller)
}

// ExtendDeadline pushes the escrow deadline forward by extraSeconds.
// The contract takes a relative extension, not an absolute timestamp.
func (s *Service) ExtendDeadline(ctx context.Context, id, extraSeconds uint32, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(extraSeconds), addrVal(caller)}
	return s.caller.Write(ctx, "extend_deadline", args, caller)
}

// SubmitRating rates a completed escrow. Score bounds are checked
// locally.
func (s *Service) SubmitRating(ctx context.Context, id uint32, score uint32, comment, caller string) (*soroban.SubmissionReceipt, error) {
	if err := requireAccount("caller", caller); err != nil {
		return nil, err
	}
	if err := ValidateRating(score); err != nil {
		return nil, err
	}
	args := []envelope.Val{envelope.U32(id), envelope.U32(score), envelope.Str(comment), addrVal(caller)}
	return s.caller.Write(ctx, "submit_rating", args, caller)
}

// ReleasedAmount computes how much of the escrow total has been paid
// out so far.
func ReleasedAmount(e *EscrowData) *big.Int {
	if e == nil || e.PaidAmount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(e.PaidAmount)
}

func notFoundOr(err error, id uint32) error {
	if ekerr.Is(err, ekerr.ErrSimulationFailed) {
		return ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrEscrowNotFound, "escrow does not exist"),
			map[string]string{"escrow_id": fmt.Sprint(id)},
		)
	}
	return err
}
