package soroban

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type carrierPayload struct{ msg string }

func (c carrierPayload) ErrorMessage() string { return c.msg }

type stringerPayload struct{ msg string }

func (s stringerPayload) String() string { return s.msg }

func TestExtractErrorMessageStages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{
			name:    "direct string wins",
			payload: "host function failed",
			want:    "host function failed",
		},
		{
			name:    "callable accessor",
			payload: carrierPayload{msg: "accessor message"},
			want:    "accessor message",
		},
		{
			name:    "error value",
			payload: errors.New("wrapped failure"),
			want:    "wrapped failure",
		},
		{
			name:    "plain message property",
			payload: map[string]any{"message": "property message"},
			want:    "property message",
		},
		{
			name:    "error property",
			payload: map[string]any{"error": "flat error"},
			want:    "flat error",
		},
		{
			name:    "nested error object",
			payload: map[string]any{"error": map[string]any{"message": "nested message"}},
			want:    "nested message",
		},
		{
			name:    "stringer fallback",
			payload: stringerPayload{msg: "stringified"},
			want:    "stringified",
		},
		{
			name: "diagnostic event scan prefers error entries",
			payload: map[string]any{
				"diagnosticEvents": []any{"fn_call: approve_milestone", "Error(Contract, #1402)"},
			},
			want: "Error(Contract, #1402)",
		},
		{
			name: "event scan falls back to first entry",
			payload: map[string]any{
				"events": []any{"topics=[escrow, approve]"},
			},
			want: "topics=[escrow, approve]",
		},
		{
			name:    "raw serialization last",
			payload: map[string]any{"code": float64(7)},
			want:    `{"code":7}`,
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractErrorMessage(tt.payload))
		})
	}
}

func TestExtractFromRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string payload", `"plain failure"`, "plain failure"},
		{"object payload", `{"message":"from object"}`, "from object"},
		{"invalid json returned raw", `{{not-json`, `{{not-json`},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractFromRaw(json.RawMessage(tt.raw)))
		})
	}
}

func TestExtractFromRawNeverBlankForNonEmptyInput(t *testing.T) {
	t.Parallel()

	// A payload none of the specific stages understand still yields its
	// raw serialization rather than a blank message.
	got := ExtractFromRaw(json.RawMessage(`[1,2,3]`))
	assert.NotEmpty(t, got)
}
