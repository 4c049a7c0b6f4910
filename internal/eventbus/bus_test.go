package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToCore(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(ActionEvent{Action: "search"}))
	ev := <-eb.UIToCore()
	assert.Equal(t, "search", ev.(ActionEvent).Action)
}

func TestSendToCoreOpensBreakerWhenFull(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	var reported []EventBusError
	eb.SetErrorCallback(func(e EventBusError) { reported = append(reported, e) })

	for i := 0; i < cap(eb.uiToCore); i++ {
		require.NoError(t, eb.SendToCore(ActionEvent{Action: "context"}))
	}
	for i := 0; i < 5; i++ {
		assert.Error(t, eb.SendToCore(ActionEvent{Action: "context"}))
	}
	assert.Equal(t, CircuitOpen, eb.GetCircuitBreakerState())
	assert.Len(t, reported, 5)
}

func TestCircuitBreakerHalfOpens(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(1, time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	now = now.Add(2 * time.Second)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestSendToUI(t *testing.T) {
	t.Run("delivers in order", func(t *testing.T) {
		eb := NewEventBus()
		defer eb.Close()
		ctx := context.Background()

		require.NoError(t, eb.SendToUI(ctx, RemoveEvent{ID: "1"}))
		require.NoError(t, eb.SendToUI(ctx, RemoveEvent{ID: "2"}))
		assert.Equal(t, "1", (<-eb.CoreToUI()).(RemoveEvent).ID)
		assert.Equal(t, "2", (<-eb.CoreToUI()).(RemoveEvent).ID)
	})

	t.Run("closed bus rejects", func(t *testing.T) {
		eb := NewEventBus()
		eb.Close()
		eb.Close()
		assert.ErrorIs(t, eb.SendToUI(context.Background(), RemoveEvent{}), ErrClosed)
		assert.ErrorIs(t, eb.SendToCore(ActionEvent{}), ErrClosed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		eb := NewEventBus()
		defer eb.Close()
		for i := 0; i < cap(eb.coreToUI); i++ {
			require.NoError(t, eb.SendToUI(context.Background(), RemoveEvent{}))
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, eb.SendToUI(ctx, RemoveEvent{}), context.Canceled)
	})
}
