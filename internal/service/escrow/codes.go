package escrow

import (
	"fmt"
	"regexp"
	"strconv"
)

// Contract error codes, grouped by concern the way the contract
// defines them.
const (
	CodeAlreadyInitialized        = 1000
	CodeFeeTooHigh                = 1001
	CodeNotOwner                  = 1002
	CodeNotInitialized            = 1003
	CodeEscrowNotFound            = 1100
	CodeEscrowNotActive           = 1101
	CodeInvalidEscrowStatus       = 1102
	CodeWorkAlreadyStarted        = 1103
	CodeWorkNotStarted            = 1104
	CodeJobCreationPaused         = 1200
	CodeInvalidDuration           = 1201
	CodeMilestoneCountMismatch    = 1202
	CodeTooManyMilestones         = 1203
	CodeTooManyArbiters           = 1204
	CodeInvalidConfirmations      = 1205
	CodeTokenNotWhitelisted       = 1206
	CodeNotOpenJob                = 1300
	CodeJobClosed                 = 1301
	CodeCannotApplyToOwnJob       = 1302
	CodeTooManyApplications       = 1303
	CodeOnlyDepositor             = 1304
	CodeFreelancerNotApplied      = 1305
	CodeAlreadyApplied            = 1306
	CodeInvalidMilestone          = 1400
	CodeMilestoneAlreadySubmitted = 1401
	CodeMilestoneNotSubmitted     = 1402
	CodeMilestoneAlreadyProcessed = 1403
	CodeNothingToRefund           = 1500
	CodeDeadlineNotPassed         = 1501
	CodeEmergencyPeriodNotReached = 1502
	CodeCannotRefund              = 1503
	CodeInvalidExtension          = 1504
	CodeCannotExtend              = 1505
	CodeOnlyBeneficiary           = 1600
	CodeUnauthorized              = 1601
	CodeInvalidAmount             = 1700
	CodeInvalidAddress            = 1701
	CodeInvalidParameter          = 1702
	CodeEscrowNotCompleted        = 1800
	CodeRatingAlreadySubmitted    = 1801
	CodeInvalidRating             = 1802
	CodeOnlyDepositorCanRate      = 1803
)

// codeMessages maps contract error codes to readable explanations.
var codeMessages = map[int]string{
	CodeAlreadyInitialized:        "contract is already initialized",
	CodeFeeTooHigh:                "platform fee exceeds the allowed maximum",
	CodeNotOwner:                  "caller is not the contract owner",
	CodeNotInitialized:            "contract has not been initialized",
	CodeEscrowNotFound:            "escrow does not exist",
	CodeEscrowNotActive:           "escrow is not active",
	CodeInvalidEscrowStatus:       "escrow is in the wrong state for this operation",
	CodeWorkAlreadyStarted:        "work has already started",
	CodeWorkNotStarted:            "work has not started yet",
	CodeJobCreationPaused:         "job creation is paused",
	CodeInvalidDuration:           "escrow duration is out of range",
	CodeMilestoneCountMismatch:    "milestone amounts and descriptions differ in length",
	CodeTooManyMilestones:         "too many milestones",
	CodeTooManyArbiters:           "too many arbiters",
	CodeInvalidConfirmations:      "required confirmations exceed the arbiter count",
	CodeTokenNotWhitelisted:       "token is not whitelisted",
	CodeNotOpenJob:                "escrow is not an open job",
	CodeJobClosed:                 "job is closed to applications",
	CodeCannotApplyToOwnJob:       "cannot apply to your own job",
	CodeTooManyApplications:       "application limit reached",
	CodeOnlyDepositor:             "only the depositor may do this",
	CodeFreelancerNotApplied:      "freelancer has not applied to this job",
	CodeAlreadyApplied:            "already applied to this job",
	CodeInvalidMilestone:          "milestone index is out of range",
	CodeMilestoneAlreadySubmitted: "milestone was already submitted",
	CodeMilestoneNotSubmitted:     "milestone has not been submitted",
	CodeMilestoneAlreadyProcessed: "milestone was already approved or rejected",
	CodeNothingToRefund:           "nothing to refund",
	CodeDeadlineNotPassed:         "deadline has not passed",
	CodeEmergencyPeriodNotReached: "emergency refund period has not been reached",
	CodeCannotRefund:              "escrow cannot be refunded in its current state",
	CodeInvalidExtension:          "deadline extension is invalid",
	CodeCannotExtend:              "deadline cannot be extended",
	CodeOnlyBeneficiary:           "only the beneficiary may do this",
	CodeUnauthorized:              "caller is not authorized",
	CodeInvalidAmount:             "amount is invalid",
	CodeInvalidAddress:            "address is invalid",
	CodeInvalidParameter:          "parameter is invalid",
	CodeEscrowNotCompleted:        "escrow is not completed",
	CodeRatingAlreadySubmitted:    "rating was already submitted",
	CodeInvalidRating:             "rating must be between 1 and 5",
	CodeOnlyDepositorCanRate:      "only the depositor may rate",
}

// CodeMessage returns the readable explanation for a contract error
// code, or a generic fallback for unmapped codes.
func CodeMessage(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("contract error %d", code)
}

// contractErrPattern matches the host's rendering of a typed contract
// failure, e.g. "Error(Contract, #1403)".
var contractErrPattern = regexp.MustCompile(`Error\(Contract,\s*#(\d+)\)`)

// DecodeContractError scans a failure message for a typed contract
// error code. The second return is false when no code is present.
func DecodeContractError(message string) (int, bool) {
	m := contractErrPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return code, true
}

// ExplainFailure turns a raw failure message into a readable one,
// substituting the catalog explanation when a typed code is present.
func ExplainFailure(message string) string {
	if code, ok := DecodeContractError(message); ok {
		return CodeMessage(code)
	}
	return message
}
