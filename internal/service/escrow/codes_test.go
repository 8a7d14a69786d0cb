package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContractError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		code    int
		ok      bool
	}{
		{"typed failure", "host invocation failed: Error(Contract, #1403)", 1403, true},
		{"typed with space", "Error(Contract, #1100) in frame 2", 1100, true},
		{"no code", "transaction simulation failed", 0, false},
		{"wrong shape", "Error(WasmVm, InternalError)", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, ok := DecodeContractError(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestCodeMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "milestone was already approved or rejected", CodeMessage(CodeMilestoneAlreadyProcessed))
	assert.Equal(t, "escrow does not exist", CodeMessage(CodeEscrowNotFound))
	assert.Equal(t, "contract error 9999", CodeMessage(9999))
}

func TestExplainFailure(t *testing.T) {
	t.Parallel()

	explained := ExplainFailure("Error(Contract, #1802)")
	require.Equal(t, "rating must be between 1 and 5", explained)

	passthrough := ExplainFailure("connection reset by peer")
	assert.Equal(t, "connection reset by peer", passthrough)
}
