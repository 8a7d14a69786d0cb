package signer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentpay/escrowkit/internal/envelope"
)

type mockBridge struct {
	signEntryFunc func(ctx context.Context, entry envelope.AuthorizationEntry, addr string) (envelope.AuthorizationEntry, error)
	entryCalls    atomic.Int64
}

func (m *mockBridge) SignAuthEntry(ctx context.Context, entry envelope.AuthorizationEntry, addr string) (envelope.AuthorizationEntry, error) {
	m.entryCalls.Add(1)
	if m.signEntryFunc != nil {
		return m.signEntryFunc(ctx, entry, addr)
	}
	entry.Signature = []byte{0xAA}
	return entry, nil
}

func (m *mockBridge) SignTransaction(_ context.Context, envelopeBytes []byte, _ SignOpts) ([]byte, error) {
	return envelopeBytes, nil
}

func TestIsRejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rejected phrase", errors.New("User rejected the request"), true},
		{"denied phrase", errors.New("access denied by wallet"), true},
		{"declined phrase", errors.New("User declined to sign"), true},
		{"user closed", errors.New("user closed the popup"), true},
		{"code 4001", NewRejectionError("nope", 4001), true},
		{"code -4", NewRejectionError("", -4), true},
		{"unrelated code", NewRejectionError("boom", 500), false},
		{"plain failure", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRejection(tt.err))
		})
	}
}

func TestIsRejectionUnrelatedCodeWithRejectionPhrase(t *testing.T) {
	t.Parallel()
	// Phrase detection still applies when the code is not a known one.
	assert.True(t, IsRejection(NewRejectionError("user rejected", 500)))
}

func TestSignAuthEntriesAllResolve(t *testing.T) {
	t.Parallel()

	bridge := &mockBridge{}
	entries := []envelope.AuthorizationEntry{
		{Signer: "a", Nonce: 1},
		{Signer: "a", Nonce: 2},
		{Signer: "a", Nonce: 3},
	}

	signed, err := SignAuthEntries(context.Background(), bridge, entries, "a")
	require.NoError(t, err)
	require.Len(t, signed, 3)
	assert.Equal(t, int64(3), bridge.entryCalls.Load())

	// Order preserved despite concurrent dispatch.
	for i, entry := range signed {
		assert.Equal(t, entries[i].Nonce, entry.Nonce)
		assert.True(t, entry.Signed())
	}
}

func TestSignAuthEntriesEmptyNeverCallsBridge(t *testing.T) {
	t.Parallel()

	bridge := &mockBridge{}
	signed, err := SignAuthEntries(context.Background(), bridge, nil, "a")
	require.NoError(t, err)
	assert.Nil(t, signed)
	assert.Equal(t, int64(0), bridge.entryCalls.Load())
}

func TestSignAuthEntriesFirstErrorWins(t *testing.T) {
	t.Parallel()

	rejection := NewRejectionError("user rejected entry", 4001)
	bridge := &mockBridge{
		signEntryFunc: func(_ context.Context, entry envelope.AuthorizationEntry, _ string) (envelope.AuthorizationEntry, error) {
			if entry.Nonce == 2 {
				return envelope.AuthorizationEntry{}, rejection
			}
			entry.Signature = []byte{0xAA}
			return entry, nil
		},
	}

	entries := []envelope.AuthorizationEntry{
		{Signer: "a", Nonce: 1},
		{Signer: "a", Nonce: 2},
		{Signer: "a", Nonce: 3},
	}

	_, err := SignAuthEntries(context.Background(), bridge, entries, "a")
	require.Error(t, err)
	assert.True(t, IsRejection(err))
	// All entries were dispatched before the error was reported.
	assert.Equal(t, int64(3), bridge.entryCalls.Load())
}
