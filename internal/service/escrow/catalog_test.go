package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

func TestLookupMethodKnown(t *testing.T) {
	t.Parallel()

	m, err := LookupMethod("approve_milestone")
	require.NoError(t, err)
	assert.True(t, m.Auth)
	assert.False(t, m.ReadOnly)

	m, err = LookupMethod("get_escrow")
	require.NoError(t, err)
	assert.True(t, m.ReadOnly)
}

func TestLookupMethodTypo(t *testing.T) {
	t.Parallel()

	_, err := LookupMethod("aprove_milestone")
	require.ErrorIs(t, err, ekerr.ErrInvalidMethod)

	var ee *ekerr.EscrowError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Suggestion, "approve_milestone")
}

func TestLookupMethodNoSuggestionWhenFarOff(t *testing.T) {
	t.Parallel()

	_, err := LookupMethod("transfer_ownership_immediately")
	require.ErrorIs(t, err, ekerr.ErrInvalidMethod)

	var ee *ekerr.EscrowError
	require.ErrorAs(t, err, &ee)
	assert.Empty(t, ee.Suggestion)
}

func TestSuggestMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"approve_milestone", "approve_milestone"},
		{"aprove_milestone", "approve_milestone"},
		{"get_escrw", "get_escrow"},
		{"submit_ratng", "submit_rating"},
		{"zzzzzzzzzzzzzzzzzzzz", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SuggestMethod(tt.input))
		})
	}
}

func TestMethodNamesSorted(t *testing.T) {
	t.Parallel()

	names := MethodNames()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
