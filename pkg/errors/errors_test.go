package errors_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

var errRootCause = errors.New("root cause")

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, ekerr.ExitSuccess},
		{"unknown", ekerr.ErrUnknown, ekerr.ExitGeneral},
		{"validation", ekerr.ErrValidationFailed, ekerr.ExitInput},
		{"rejected", ekerr.ErrUserRejected, ekerr.ExitRejected},
		{"network", ekerr.ErrNetworkUnavailable, ekerr.ExitNetwork},
		{"timed out", ekerr.ErrSubmissionTimedOut, ekerr.ExitAmbiguous},
		{"contract", ekerr.ErrContractExecution, ekerr.ExitContract},
		{"simulation", ekerr.ErrSimulationFailed, ekerr.ExitSimulation},
		{"not found", ekerr.ErrAccountNotFound, ekerr.ExitNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ekerr.ExitCode(tt.err))
		})
	}
}

func TestSentinelIdentityPreservedByHelpers(t *testing.T) {
	t.Parallel()

	wrapped := ekerr.Wrap(ekerr.ErrSimulationFailed, "approve_milestone")
	require.ErrorIs(t, wrapped, ekerr.ErrSimulationFailed)

	detailed := ekerr.WithDetails(ekerr.ErrValidationFailed, map[string]string{"field": "total_amount"})
	require.ErrorIs(t, detailed, ekerr.ErrValidationFailed)

	suggested := ekerr.WithSuggestion(ekerr.ErrInvalidMethod, "did you mean approve_milestone?")
	require.ErrorIs(t, suggested, ekerr.ErrInvalidMethod)

	caused := ekerr.WithCause(ekerr.ErrNetworkUnavailable, errRootCause)
	require.ErrorIs(t, caused, ekerr.ErrNetworkUnavailable)
	require.ErrorIs(t, caused, errRootCause)
}

func TestErrorCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err      error
		expected string
	}{
		{ekerr.ErrUserRejected, "USER_REJECTED"},
		{ekerr.ErrValidationFailed, "VALIDATION_FAILED"},
		{ekerr.ErrSimulationFailed, "SIMULATION_FAILED"},
		{ekerr.ErrNetworkUnavailable, "NETWORK_UNAVAILABLE"},
		{ekerr.ErrSubmissionTimedOut, "SUBMISSION_TIMED_OUT"},
		{ekerr.ErrContractExecution, "CONTRACT_EXECUTION_FAILED"},
		{ekerr.ErrUnknown, "UNKNOWN"},
		{errRootCause, "UNKNOWN"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ekerr.Code(tt.err))
		})
	}
}

func TestErrorMessageIncludesSortedDetails(t *testing.T) {
	t.Parallel()

	err := ekerr.WithDetails(ekerr.ErrValidationFailed, map[string]string{
		"total":     "100",
		"milestone": "90",
	})

	msg := err.Error()
	assert.Contains(t, msg, "(milestone: 90)")
	assert.Contains(t, msg, "(total: 100)")
	// Sorted keys: milestone before total.
	assert.Less(t, strings.Index(msg, "milestone"), strings.Index(msg, "total"))
}

func TestWrapPlainError(t *testing.T) {
	t.Parallel()

	wrapped := ekerr.Wrap(errRootCause, "refreshing balance")
	require.Error(t, wrapped)
	assert.Equal(t, "UNKNOWN", ekerr.Code(wrapped))
	assert.Equal(t, ekerr.ExitGeneral, ekerr.ExitCode(wrapped))
	require.ErrorIs(t, wrapped, errRootCause)
}

func TestWrapNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ekerr.Wrap(nil, "nothing"))
	assert.NoError(t, ekerr.WithDetails(nil, nil))
	assert.NoError(t, ekerr.WithSuggestion(nil, "unused"))
}
