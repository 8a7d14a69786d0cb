// Package errors provides structured error handling for escrowkit.
// It defines the invocation failure taxonomy, exit codes, and helpers
// for adding context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for the diagnostic CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input caught before any network call
	ExitRejected   = 3 // User rejected the signing request
	ExitNotFound   = 4 // Resource not found
	ExitNetwork    = 5 // Network unreachable or RPC failure
	ExitAmbiguous  = 6 // Submission outcome unknown (still pending at the poll ceiling)
	ExitContract   = 7 // Contract execution failed on-chain
	ExitSimulation = 8 // Dry run reported the call would fail
)

// EscrowError is the structured error type for escrowkit.
type EscrowError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *EscrowError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *EscrowError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for EscrowError.
func (e *EscrowError) Is(target error) bool {
	var t *EscrowError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Classification sentinels. Every failure surfaced by the invoke service
// resolves to exactly one of these codes.
var (
	ErrUserRejected = &EscrowError{
		Code:     "USER_REJECTED",
		Message:  "signing request was rejected",
		ExitCode: ExitRejected,
	}

	ErrValidationFailed = &EscrowError{
		Code:     "VALIDATION_FAILED",
		Message:  "request failed validation before any network call",
		ExitCode: ExitInput,
	}

	ErrSimulationFailed = &EscrowError{
		Code:     "SIMULATION_FAILED",
		Message:  "transaction simulation reported the call would fail",
		ExitCode: ExitSimulation,
	}

	ErrNetworkUnavailable = &EscrowError{
		Code:     "NETWORK_UNAVAILABLE",
		Message:  "network communication failed",
		ExitCode: ExitNetwork,
	}

	ErrSubmissionTimedOut = &EscrowError{
		Code:     "SUBMISSION_TIMED_OUT",
		Message:  "submission is still pending - outcome unknown, it may have failed",
		ExitCode: ExitAmbiguous,
	}

	ErrContractExecution = &EscrowError{
		Code:     "CONTRACT_EXECUTION_FAILED",
		Message:  "contract execution failed",
		ExitCode: ExitContract,
	}

	ErrUnknown = &EscrowError{
		Code:     "UNKNOWN",
		Message:  "an unknown error occurred",
		ExitCode: ExitGeneral,
	}
)

// Sentinels used below the orchestrator boundary.
var (
	ErrInvalidAddress = &EscrowError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &EscrowError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount",
		ExitCode: ExitInput,
	}

	ErrInvalidMethod = &EscrowError{
		Code:     "INVALID_METHOD",
		Message:  "unknown contract method",
		ExitCode: ExitInput,
	}

	ErrSignerAddressRequired = &EscrowError{
		Code:     "SIGNER_ADDRESS_REQUIRED",
		Message:  "signer address is required",
		ExitCode: ExitInput,
	}

	ErrAccountNotFound = &EscrowError{
		Code:     "ACCOUNT_NOT_FOUND",
		Message:  "account not found on the network",
		ExitCode: ExitNotFound,
	}

	ErrTransactionNotFound = &EscrowError{
		Code:     "TRANSACTION_NOT_FOUND",
		Message:  "transaction not found",
		ExitCode: ExitNotFound,
	}

	ErrEscrowNotFound = &EscrowError{
		Code:     "ESCROW_NOT_FOUND",
		Message:  "escrow not found",
		ExitCode: ExitNotFound,
	}

	ErrMilestoneState = &EscrowError{
		Code:     "MILESTONE_STATE",
		Message:  "milestone is not in a state that allows this action",
		ExitCode: ExitInput,
	}

	ErrAuthEntriesStale = &EscrowError{
		Code:     "AUTH_ENTRIES_STALE",
		Message:  "signed authorization entries no longer match the envelope",
		ExitCode: ExitGeneral,
	}

	ErrEnvelopeReplay = &EscrowError{
		Code:     "ENVELOPE_REPLAY",
		Message:  "envelope was already submitted with this sequence number",
		ExitCode: ExitInput,
	}

	ErrConfigInvalid = &EscrowError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrConfigNotFound = &EscrowError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrJournalClosed = &EscrowError{
		Code:     "JOURNAL_CLOSED",
		Message:  "submission journal is closed",
		ExitCode: ExitGeneral,
	}
)

// New creates a new EscrowError with the given code and message.
func New(code, message string) *EscrowError {
	return &EscrowError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ee *EscrowError
	if errors.As(err, &ee) {
		return &EscrowError{
			Code:       ee.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ee.Message),
			Details:    ee.Details,
			Suggestion: ee.Suggestion,
			Cause:      err,
			ExitCode:   ee.ExitCode,
		}
	}

	return &EscrowError{
		Code:     "UNKNOWN",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ee *EscrowError
	if errors.As(err, &ee) {
		return &EscrowError{
			Code:       ee.Code,
			Message:    ee.Message,
			Details:    details,
			Suggestion: ee.Suggestion,
			Cause:      ee.Cause,
			ExitCode:   ee.ExitCode,
		}
	}

	return &EscrowError{
		Code:     "UNKNOWN",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ee *EscrowError
	if errors.As(err, &ee) {
		return &EscrowError{
			Code:       ee.Code,
			Message:    ee.Message,
			Details:    ee.Details,
			Suggestion: suggestion,
			Cause:      ee.Cause,
			ExitCode:   ee.ExitCode,
		}
	}

	return &EscrowError{
		Code:       "UNKNOWN",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// WithCause attaches a cause to a sentinel without altering its identity.
func WithCause(err *EscrowError, cause error) error {
	if cause == nil {
		return err
	}
	return &EscrowError{
		Code:       err.Code,
		Message:    err.Message,
		Details:    err.Details,
		Suggestion: err.Suggestion,
		Cause:      cause,
		ExitCode:   err.ExitCode,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *EscrowError
	if errors.As(err, &ee) {
		return ee.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var ee *EscrowError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return "UNKNOWN"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
