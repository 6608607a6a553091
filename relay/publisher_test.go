package relay

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/orderlink/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// scriptedPublisher returns one canned result per call.
type scriptedPublisher struct {
	results []error
	calls   int
}

func (s *scriptedPublisher) Publish(ctx context.Context, ev *Event) error {
	defer func() { s.calls++ }()
	if s.calls < len(s.results) {
		return s.results[s.calls]
	}
	return nil
}

func newTestRetryPublisher(inner Publisher) (*RetryPublisher, *[]time.Duration) {
	delays := &[]time.Duration{}
	p := NewRetryPublisher(inner)
	p.sleep = func(d time.Duration) {
		*delays = append(*delays, d)
	}
	return p, delays
}

func TestRetryPublisherSucceedsFirstTry(t *testing.T) {
	inner := &scriptedPublisher{}
	p, delays := newTestRetryPublisher(inner)

	ev, err := NewEvent("new-order", nil)
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), ev))
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, *delays)
}

func TestRetryPublisherBacksOffThenSucceeds(t *testing.T) {
	unreachable := errors.New("relay unreachable")
	inner := &scriptedPublisher{results: []error{unreachable, nil}}
	p, delays := newTestRetryPublisher(inner)

	ev, err := NewEvent("new-order", nil)
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), ev))
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []time.Duration{time.Second}, *delays)
}

func TestRetryPublisherGivesUpAfterBudget(t *testing.T) {
	unreachable := errors.New("relay unreachable")
	inner := &scriptedPublisher{results: []error{unreachable, unreachable, unreachable, unreachable}}
	p, delays := newTestRetryPublisher(inner)

	ev, err := NewEvent("new-order", nil)
	require.NoError(t, err)

	pubErr := p.Publish(context.Background(), ev)
	assert.ErrorIs(t, pubErr, unreachable)

	// Initial attempt plus two retries, doubling delay between attempts
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
}

func TestRetryPublisherStopsOnCancelledContext(t *testing.T) {
	unreachable := errors.New("relay unreachable")
	inner := &scriptedPublisher{results: []error{unreachable, unreachable, unreachable}}

	ctx, cancel := context.WithCancel(context.Background())
	p := NewRetryPublisher(inner)
	p.sleep = func(time.Duration) { cancel() }

	ev, err := NewEvent("new-order", nil)
	require.NoError(t, err)

	pubErr := p.Publish(ctx, ev)
	assert.ErrorIs(t, pubErr, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestClientRequiresConfiguredRelays(t *testing.T) {
	c := NewClient(nil)

	ev, err := NewEvent("new-order", nil)
	require.NoError(t, err)

	assert.Error(t, c.Publish(context.Background(), ev))
}
