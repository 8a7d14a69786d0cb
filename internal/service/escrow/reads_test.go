package escrow

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decentpay/escrowkit/internal/envelope"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

func TestGetUserEscrows(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{
		readFunc: func(context.Context, string, []envelope.Val) (json.RawMessage, error) {
			return json.RawMessage(`[3, 7, 12]`), nil
		},
	}
	svc := NewService(caller)

	ids, err := svc.GetUserEscrows(context.Background(), testFreelancer)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 7, 12}, ids)
}

func TestGetAverageRatingPair(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{
		readFunc: func(context.Context, string, []envelope.Val) (json.RawMessage, error) {
			return json.RawMessage(`[9, 2]`), nil
		},
	}
	svc := NewService(caller)

	summary, err := svc.GetAverageRating(context.Background(), testFreelancer)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), summary.Total)
	assert.Equal(t, uint32(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average(), 0.001)
}

func TestRatingSummaryAverageUnrated(t *testing.T) {
	t.Parallel()
	assert.Zero(t, RatingSummary{}.Average())
}

func TestGetBadge(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{
		readFunc: func(context.Context, string, []envelope.Val) (json.RawMessage, error) {
			return json.RawMessage(`"Advanced"`), nil
		},
	}
	svc := NewService(caller)

	badge, err := svc.GetBadge(context.Background(), testFreelancer)
	require.NoError(t, err)
	assert.Equal(t, BadgeAdvanced, badge)
}

func TestBadgeForThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		completed uint32
		want      Badge
	}{
		{0, BadgeBeginner},
		{4, BadgeBeginner},
		{5, BadgeIntermediate},
		{14, BadgeIntermediate},
		{15, BadgeAdvanced},
		{49, BadgeAdvanced},
		{50, BadgeExpert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BadgeFor(tt.completed), "completed=%d", tt.completed)
	}
}

func TestGetApplicationAbsent(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{
		readFunc: func(context.Context, string, []envelope.Val) (json.RawMessage, error) {
			return json.RawMessage(`null`), nil
		},
	}
	svc := NewService(caller)

	app, err := svc.GetApplication(context.Background(), 1, testFreelancer)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestCalculateFee(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{
		readFunc: func(_ context.Context, method string, _ []envelope.Val) (json.RawMessage, error) {
			require.Equal(t, "calculate_fee", method)
			return json.RawMessage(`"25"`), nil
		},
	}
	svc := NewService(caller)

	fee, err := svc.CalculateFee(context.Background(), big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(25), fee)

	_, err = svc.CalculateFee(context.Background(), big.NewInt(0))
	require.ErrorIs(t, err, ekerr.ErrInvalidAmount)
	assert.Equal(t, int64(1), caller.readCalls.Load(), "invalid amount never reaches the network")
}

func TestReadPredicates(t *testing.T) {
	t.Parallel()

	caller := &mockCaller{
		readFunc: func(context.Context, string, []envelope.Val) (json.RawMessage, error) {
			return json.RawMessage(`true`), nil
		},
	}
	svc := NewService(caller)

	paused, err := svc.IsJobCreationPaused(context.Background())
	require.NoError(t, err)
	assert.True(t, paused)

	authorized, err := svc.IsAuthorizedArbiter(context.Background(), testArbiter)
	require.NoError(t, err)
	assert.True(t, authorized)

	_, err = svc.IsAuthorizedArbiter(context.Background(), "bogus")
	require.ErrorIs(t, err, ekerr.ErrInvalidAddress)
}
