package event_bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType is an identifier for events.
type EventType string

// Event is the envelope passed to subscribers. Data is kept as any so
// different payload types can share one bus.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

// NewEvent creates an Event stamped with the current time.
func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{
		ctx:       ctx,
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Context returns the context the event was published with. Handlers use it
// for cancellation and request-scoped values such as the request ID.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT carries a payload already asserted to T. Its Data field shadows
// the untyped one of the embedded Event.
type EventT[T any] struct {
	Event
	Data T
}

// handler is the internal shape of a subscriber.
type handler func(Event) error

// EventBus is a concurrency-safe synchronous dispatcher. Handlers run
// sequentially during Publish, in the order they subscribed.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[uint64]handler
	nextID      uint64
}

// NewEventBus creates an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType]map[uint64]handler),
	}
}

// Subscribe registers h for eventType and returns a function removing it.
// Handlers return an error when they fail to process the event; the error
// is reported by Publish without stopping the remaining handlers.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextID++
	id := eb.nextID
	if eb.subscribers[eventType] == nil {
		eb.subscribers[eventType] = make(map[uint64]handler)
	}
	eb.subscribers[eventType][id] = h
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if handlers := eb.subscribers[eventType]; handlers != nil {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(eb.subscribers, eventType)
			}
		}
	}
}

// SubscribeTyped registers a handler that only sees payloads of type T.
// Events carrying another payload type, or none, are skipped. It is a free
// function because methods cannot declare type parameters.
//
// Example:
//
//	event_bus.SubscribeTyped(bus, event_bus.DatasetLoadedType,
//	    func(e event_bus.EventT[event_bus.DatasetLoaded]) error {
//	        log.Infof("loaded %d cities", e.Data.Cities)
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, eventType EventType, h func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: skipping %s, expected %T, got %T", eventType, *new(T), e.Data)
			return nil
		}
		return h(EventT[T]{Event: e, Data: payload})
	})
}

// Publish runs every handler registered for e.Type synchronously. Handler
// errors are collected and returned joined in a single error; panics are
// recovered and treated as errors. If the event's context is cancelled
// before or during dispatch, the remaining handlers are skipped and the
// context error is returned.
func (eb *EventBus) Publish(e Event) error {
	if err := e.Context().Err(); err != nil {
		return fmt.Errorf("event %s: context cancelled before publish: %w", e.Type, err)
	}

	eb.mu.RLock()
	ids := make([]uint64, 0, len(eb.subscribers[e.Type]))
	handlers := make(map[uint64]handler, len(eb.subscribers[e.Type]))
	for id, h := range eb.subscribers[e.Type] {
		ids = append(ids, id)
		handlers[id] = h
	}
	eb.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var errs []error
	for _, id := range ids {
		if err := e.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("context cancelled during event processing: %w", err))
			break
		}
		if err := invoke(id, handlers[id], e); err != nil {
			log.Errorf("EventBus: handler %d failed for %s: %v", id, e.Type, err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

// invoke calls h, turning a panic into an error.
func invoke(id uint64, h handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %d panicked on %s: %v", id, e.Type, r)
		}
	}()
	return h(e)
}
