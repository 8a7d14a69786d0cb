// Package events provides the typed notification bus for orchestration
// outcomes. Each event kind has a defined payload contract; consumers
// subscribe explicitly instead of listening for ambient broadcast
// refreshes.
package events

import (
	"context"
	"sync"
	"time"
)

// Kind identifies an event type.
type Kind string

// Event kinds and their payload contracts (see Event field comments).
const (
	KindSubmissionStarted   Kind = "submission.started"   // Hash, Method, Address
	KindSubmissionConfirmed Kind = "submission.confirmed" // Hash, Method, Address
	KindSubmissionFailed    Kind = "submission.failed"    // Hash, Method, Address, Message
	KindSubmissionUnknown   Kind = "submission.unknown"   // Hash, Method, Address (poll ceiling)
	KindBalanceRefreshed    Kind = "balance.refreshed"    // Address
	KindEscrowChanged       Kind = "escrow.changed"       // EscrowID, Method
)

// Event is the typed payload published on the bus.
type Event struct {
	Kind     Kind      `json:"kind"`
	Hash     string    `json:"hash,omitempty"`
	Method   string    `json:"method,omitempty"`
	Address  string    `json:"address,omitempty"`
	EscrowID uint32    `json:"escrow_id,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

// Sink receives published events. Publishing is best-effort from the
// orchestrator's point of view: a sink error never fails an invocation.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Handler consumes events delivered by the dispatcher.
type Handler func(event Event)

// Dispatcher is the in-process bus. It implements Sink and fans events
// out synchronously to subscribed handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	all      []Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers a handler for one event kind.
func (d *Dispatcher) Subscribe(kind Kind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], h)
}

// SubscribeAll registers a handler for every event kind.
func (d *Dispatcher) SubscribeAll(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = append(d.all, h)
}

// Publish delivers an event to every matching handler.
func (d *Dispatcher) Publish(_ context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	d.mu.RLock()
	kindHandlers := make([]Handler, 0, len(d.handlers[event.Kind])+len(d.all))
	kindHandlers = append(kindHandlers, d.handlers[event.Kind]...)
	kindHandlers = append(kindHandlers, d.all...)
	d.mu.RUnlock()

	for _, h := range kindHandlers {
		h(event)
	}
	return nil
}

// Multi fans one publish out to several sinks, returning the first
// error after all sinks have been attempted.
type Multi []Sink

// Publish implements Sink.
func (m Multi) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Discard is a Sink that drops every event.
type Discard struct{}

// Publish implements Sink.
func (Discard) Publish(context.Context, Event) error { return nil }
