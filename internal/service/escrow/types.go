// Package escrow provides the typed surface of the milestone escrow
// contract: the method catalog, contract error decoding, client-side
// validation, and read/write operations expressed as Go types instead
// of raw argument lists.
package escrow

import "math/big"

// EscrowStatus is the lifecycle state of an escrow.
type EscrowStatus string

// Escrow lifecycle states.
const (
	EscrowPending    EscrowStatus = "Pending"
	EscrowInProgress EscrowStatus = "InProgress"
	EscrowReleased   EscrowStatus = "Released"
	EscrowRefunded   EscrowStatus = "Refunded"
	EscrowDisputed   EscrowStatus = "Disputed"
	EscrowExpired    EscrowStatus = "Expired"
)

// MilestoneStatus is the lifecycle state of a single milestone.
type MilestoneStatus string

// Milestone lifecycle states.
const (
	MilestoneNotStarted MilestoneStatus = "NotStarted"
	MilestoneSubmitted  MilestoneStatus = "Submitted"
	MilestoneApproved   MilestoneStatus = "Approved"
	MilestoneDisputed   MilestoneStatus = "Disputed"
	MilestoneResolved   MilestoneStatus = "Resolved"
	MilestoneRejected   MilestoneStatus = "Rejected"
)

// EscrowData mirrors the on-chain escrow record.
type EscrowData struct {
	ID                     uint32       `json:"id"`
	Depositor              string       `json:"depositor"`
	Beneficiary            string       `json:"beneficiary,omitempty"`
	Arbiters               []string     `json:"arbiters"`
	RequiredConfirmations  uint32       `json:"required_confirmations"`
	Token                  string       `json:"token,omitempty"` // empty for native asset
	TotalAmount            *big.Int     `json:"total_amount"`
	PaidAmount             *big.Int     `json:"paid_amount"`
	PlatformFee            *big.Int     `json:"platform_fee"`
	Deadline               uint32       `json:"deadline"`
	Status                 EscrowStatus `json:"status"`
	WorkStarted            bool         `json:"work_started"`
	CreatedAt              uint32       `json:"created_at"`
	MilestoneCount         uint32       `json:"milestone_count"`
	IsOpenJob              bool         `json:"is_open_job"`
	ProjectTitle           string       `json:"project_title"`
	ProjectDescription     string       `json:"project_description"`
}

// Milestone mirrors the on-chain milestone record.
type Milestone struct {
	Index         uint32          `json:"index"`
	Description   string          `json:"description"`
	Amount        *big.Int        `json:"amount"`
	Status        MilestoneStatus `json:"status"`
	SubmittedAt   uint32          `json:"submitted_at,omitempty"`
	ApprovedAt    uint32          `json:"approved_at,omitempty"`
	DisputedAt    uint32          `json:"disputed_at,omitempty"`
	DisputedBy    string          `json:"disputed_by,omitempty"`
	DisputeReason string          `json:"dispute_reason,omitempty"`
}

// Application is a freelancer's application to an open job.
type Application struct {
	Freelancer       string `json:"freelancer"`
	CoverLetter      string `json:"cover_letter,omitempty"`
	ProposedTimeline uint32 `json:"proposed_timeline"`
	AppliedAt        uint32 `json:"applied_at"`
}

// Rating is the depositor's rating of a completed escrow.
type Rating struct {
	EscrowID uint32 `json:"escrow_id"`
	Score    uint32 `json:"score"` // 1..5
	Comment  string `json:"comment,omitempty"`
	RatedAt  uint32 `json:"rated_at"`
}

// Badge is a freelancer's experience tier, derived from the number of
// completed escrows.
type Badge string

// Badge tiers.
const (
	BadgeBeginner     Badge = "Beginner"     // 0-4 completed
	BadgeIntermediate Badge = "Intermediate" // 5-14 completed
	BadgeAdvanced     Badge = "Advanced"     // 15-49 completed
	BadgeExpert       Badge = "Expert"       // 50+ completed
)

// BadgeFor maps a completed-escrow count to its badge tier, mirroring
// the contract's thresholds.
func BadgeFor(completed uint32) Badge {
	switch {
	case completed < 5:
		return BadgeBeginner
	case completed < 15:
		return BadgeIntermediate
	case completed < 50:
		return BadgeAdvanced
	default:
		return BadgeExpert
	}
}

// RatingSummary is a freelancer's aggregate rating: the sum of all
// scores received and the number of ratings.
type RatingSummary struct {
	Total uint32 `json:"total"`
	Count uint32 `json:"count"`
}

// Average returns the mean score, or 0 when unrated.
func (r RatingSummary) Average() float64 {
	if r.Count == 0 {
		return 0
	}
	return float64(r.Total) / float64(r.Count)
}

// CanSubmit reports whether a milestone in this state accepts a
// first-time submission.
func (s MilestoneStatus) CanSubmit() bool {
	return s == MilestoneNotStarted
}

// CanResubmit reports whether a milestone in this state accepts a
// resubmission after rejection.
func (s MilestoneStatus) CanResubmit() bool {
	return s == MilestoneRejected
}

// CanReview reports whether a milestone in this state can be approved,
// rejected, or disputed.
func (s MilestoneStatus) CanReview() bool {
	return s == MilestoneSubmitted
}

// Terminal reports whether the escrow state admits no further
// transitions.
func (s EscrowStatus) Terminal() bool {
	switch s {
	case EscrowReleased, EscrowRefunded, EscrowExpired:
		return true
	case EscrowPending, EscrowInProgress, EscrowDisputed:
		return false
	default:
		return false
	}
}
