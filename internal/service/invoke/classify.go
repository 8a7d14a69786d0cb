package invoke

import (
	"github.com/decentpay/escrowkit/internal/service/escrow"
	"github.com/decentpay/escrowkit/internal/signer"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// Stage names the pipeline step a failure escaped from. Classification
// happens once, at the pipeline boundary; inner layers return their own
// errors untouched.
type Stage int

// Pipeline stages.
const (
	StageValidate Stage = iota
	StageBuild
	StageSimulate
	StageSign
	StageSubmit
	StageConfirm
)

// stageFallbacks maps each stage to the taxonomy code used when the
// error carries no classification of its own.
var stageFallbacks = map[Stage]*ekerr.EscrowError{
	StageValidate: ekerr.ErrValidationFailed,
	StageBuild:    ekerr.ErrValidationFailed,
	StageSimulate: ekerr.ErrSimulationFailed,
	StageSign:     ekerr.ErrUnknown,
	StageSubmit:   ekerr.ErrNetworkUnavailable,
	StageConfirm:  ekerr.ErrUnknown,
}

// classificationSentinels are the taxonomy codes. An error already
// carrying one passes through classification unchanged.
var classificationSentinels = []*ekerr.EscrowError{
	ekerr.ErrUserRejected,
	ekerr.ErrValidationFailed,
	ekerr.ErrSimulationFailed,
	ekerr.ErrNetworkUnavailable,
	ekerr.ErrSubmissionTimedOut,
	ekerr.ErrContractExecution,
	ekerr.ErrUnknown,
	ekerr.ErrInvalidAddress,
	ekerr.ErrInvalidAmount,
	ekerr.ErrInvalidMethod,
	ekerr.ErrSignerAddressRequired,
	ekerr.ErrAccountNotFound,
	ekerr.ErrMilestoneState,
	ekerr.ErrAuthEntriesStale,
}

func alreadyClassified(err error) bool {
	for _, sentinel := range classificationSentinels {
		if ekerr.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// classify assigns exactly one taxonomy code to a pipeline failure.
// Rejection detection applies only to the signing stage: only the
// bridge can reject, and a node or proxy error that happens to say
// "denied" must stay a network failure.
func classify(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	if stage == StageSign && signer.IsRejection(err) {
		rejected := ekerr.WithCause(ekerr.ErrUserRejected, err)
		return ekerr.WithSuggestion(rejected,
			"Approve the request in your signing agent and try again.")
	}

	if alreadyClassified(err) {
		return err
	}

	fallback, ok := stageFallbacks[stage]
	if !ok {
		fallback = ekerr.ErrUnknown
	}
	return ekerr.WithCause(fallback, err)
}

// simulationFailure turns a failed dry run into a SIMULATION_FAILED
// error whose message substitutes the catalog explanation when the
// payload carried a typed contract code.
func simulationFailure(method, message string) error {
	explained := escrow.ExplainFailure(message)
	details := map[string]string{"method": method}
	if code, ok := escrow.DecodeContractError(message); ok {
		details["contract_error"] = escrow.CodeMessage(code)
	}
	return ekerr.WithDetails(
		ekerr.Wrap(ekerr.ErrSimulationFailed, "%s", explained),
		details,
	)
}

// executionFailure turns an on-chain failure observed during
// confirmation into a CONTRACT_EXECUTION_FAILED error.
func executionFailure(hash, message string) error {
	explained := escrow.ExplainFailure(message)
	return ekerr.WithDetails(
		ekerr.Wrap(ekerr.ErrContractExecution, "%s", explained),
		map[string]string{"hash": hash},
	)
}
