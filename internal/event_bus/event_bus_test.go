package event_bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_RunsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []int
	for i := 1; i <= 5; i++ {
		i := i
		bus.Subscribe(EventsSearchedType, func(e Event) error {
			calls = append(calls, i)
			return nil
		})
	}

	err := bus.Publish(NewEvent(context.Background(), EventsSearchedType, EventsSearched{}))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

func TestPublish_OnlyMatchingType(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(DatasetLoadedType, func(e Event) error {
		called = true
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), EventsSearchedType, nil)))
	assert.False(t, called)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe(DatasetLoadedType, func(e Event) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), DatasetLoadedType, nil)))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), DatasetLoadedType, nil)))

	assert.Equal(t, 1, count)
}

func TestPublish_CollectsErrorsAndPanics(t *testing.T) {
	bus := NewEventBus()
	handlerErr := errors.New("boom")
	reached := false
	bus.Subscribe(DatasetLoadedType, func(e Event) error { return handlerErr })
	bus.Subscribe(DatasetLoadedType, func(e Event) error { panic("kaboom") })
	bus.Subscribe(DatasetLoadedType, func(e Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), DatasetLoadedType, nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, handlerErr)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, reached)
}

func TestPublish_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(DatasetLoadedType, func(e Event) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, DatasetLoadedType, nil))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []EventsSearched
	SubscribeTyped(bus, EventsSearchedType, func(e EventT[EventsSearched]) error {
		assert.NotNil(t, e.Context())
		received = append(received, e.Data)
		return nil
	})

	payload := EventsSearched{City: "Melbourne", Month: time.April, Year: 2025, Matches: 3}
	require.NoError(t, bus.Publish(NewEvent(context.Background(), EventsSearchedType, payload)))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), EventsSearchedType, "wrong payload")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), EventsSearchedType, nil)))

	assert.Equal(t, []EventsSearched{payload}, received)
}
