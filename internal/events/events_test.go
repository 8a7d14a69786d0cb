package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByKind(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()

	var confirmed, failed []Event
	d.Subscribe(KindSubmissionConfirmed, func(e Event) { confirmed = append(confirmed, e) })
	d.Subscribe(KindSubmissionFailed, func(e Event) { failed = append(failed, e) })

	require.NoError(t, d.Publish(context.Background(), Event{Kind: KindSubmissionConfirmed, Hash: "abc"}))
	require.NoError(t, d.Publish(context.Background(), Event{Kind: KindSubmissionConfirmed, Hash: "def"}))
	require.NoError(t, d.Publish(context.Background(), Event{Kind: KindBalanceRefreshed, Address: "GA7Q"}))

	require.Len(t, confirmed, 2)
	assert.Equal(t, "abc", confirmed[0].Hash)
	assert.Empty(t, failed)
}

func TestDispatcherSubscribeAll(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()

	var seen []Kind
	d.SubscribeAll(func(e Event) { seen = append(seen, e.Kind) })

	require.NoError(t, d.Publish(context.Background(), Event{Kind: KindSubmissionStarted}))
	require.NoError(t, d.Publish(context.Background(), Event{Kind: KindEscrowChanged}))

	assert.Equal(t, []Kind{KindSubmissionStarted, KindEscrowChanged}, seen)
}

func TestDispatcherStampsTime(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()

	var got Event
	d.Subscribe(KindSubmissionStarted, func(e Event) { got = e })

	require.NoError(t, d.Publish(context.Background(), Event{Kind: KindSubmissionStarted}))
	assert.False(t, got.At.IsZero())
}

type errorSink struct{ err error }

func (s errorSink) Publish(context.Context, Event) error { return s.err }

func TestMultiAttemptsAllSinks(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	d := NewDispatcher()

	var delivered int
	d.SubscribeAll(func(Event) { delivered++ })

	m := Multi{errorSink{err: boom}, nil, d}
	err := m.Publish(context.Background(), Event{Kind: KindSubmissionFailed})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, delivered, "later sinks still receive the event")
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	require.NoError(t, Discard{}.Publish(context.Background(), Event{Kind: KindSubmissionStarted}))
}
