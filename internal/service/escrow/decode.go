package escrow

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Wire shapes for decoded contract return values. Amounts travel as
// decimal strings; they exceed what a JSON number can carry.
type wireEscrow struct {
	Depositor             string   `json:"depositor"`
	Beneficiary           string   `json:"beneficiary"`
	Arbiters              []string `json:"arbiters"`
	RequiredConfirmations uint32   `json:"required_confirmations"`
	Token                 string   `json:"token"`
	TotalAmount           string   `json:"total_amount"`
	PaidAmount            string   `json:"paid_amount"`
	PlatformFee           string   `json:"platform_fee"`
	Deadline              uint32   `json:"deadline"`
	Status                string   `json:"status"`
	WorkStarted           bool     `json:"work_started"`
	CreatedAt             uint32   `json:"created_at"`
	MilestoneCount        uint32   `json:"milestone_count"`
	IsOpenJob             bool     `json:"is_open_job"`
	ProjectTitle          string   `json:"project_title"`
	ProjectDescription    string   `json:"project_description"`
}

type wireMilestone struct {
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	SubmittedAt   uint32 `json:"submitted_at"`
	ApprovedAt    uint32 `json:"approved_at"`
	DisputedAt    uint32 `json:"disputed_at"`
	DisputedBy    string `json:"disputed_by"`
	DisputeReason string `json:"dispute_reason"`
}

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("escrow: %s is not a decimal amount: %q", field, s)
	}
	return v, nil
}

func decodeEscrow(id uint32, raw json.RawMessage) (*EscrowData, error) {
	var w wireEscrow
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("escrow: decode escrow: %w", err)
	}

	total, err := parseAmount("total_amount", w.TotalAmount)
	if err != nil {
		return nil, err
	}
	paid, err := parseAmount("paid_amount", w.PaidAmount)
	if err != nil {
		return nil, err
	}
	fee, err := parseAmount("platform_fee", w.PlatformFee)
	if err != nil {
		return nil, err
	}

	return &EscrowData{
		ID:                    id,
		Depositor:             w.Depositor,
		Beneficiary:           w.Beneficiary,
		Arbiters:              w.Arbiters,
		RequiredConfirmations: w.RequiredConfirmations,
		Token:                 w.Token,
		TotalAmount:           total,
		PaidAmount:            paid,
		PlatformFee:           fee,
		Deadline:              w.Deadline,
		Status:                EscrowStatus(w.Status),
		WorkStarted:           w.WorkStarted,
		CreatedAt:             w.CreatedAt,
		MilestoneCount:        w.MilestoneCount,
		IsOpenJob:             w.IsOpenJob,
		ProjectTitle:          w.ProjectTitle,
		ProjectDescription:    w.ProjectDescription,
	}, nil
}

func decodeMilestone(index uint32, raw json.RawMessage) (*Milestone, error) {
	var w wireMilestone
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("escrow: decode milestone: %w", err)
	}

	amount, err := parseAmount("amount", w.Amount)
	if err != nil {
		return nil, err
	}

	return &Milestone{
		Index:         index,
		Description:   w.Description,
		Amount:        amount,
		Status:        MilestoneStatus(w.Status),
		SubmittedAt:   w.SubmittedAt,
		ApprovedAt:    w.ApprovedAt,
		DisputedAt:    w.DisputedAt,
		DisputedBy:    w.DisputedBy,
		DisputeReason: w.DisputeReason,
	}, nil
}
