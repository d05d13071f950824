// Package input fans [gesture.Input] out to attached handlers.
//
// A [Hub] replaces process-wide event listeners with explicit
// subscriptions: every [Hub.Attach] returns a [Subscription] that must be
// detached by its owner.
package input

import (
	"sync"

	"github.com/macropower/flip/pkg/gesture"
)

// Handler handles input. It is implemented by [gesture.Recognizer].
type Handler interface {
	Handle(in gesture.Input) gesture.Outcome
}

// HandlerFunc adapts a function to a [Handler].
type HandlerFunc func(in gesture.Input) gesture.Outcome

// Handle implements [Handler].
func (f HandlerFunc) Handle(in gesture.Input) gesture.Outcome {
	return f(in)
}

// Hub dispatches input to attached handlers in attach order.
// It is safe for concurrent use.
type Hub struct {
	subs   []*Subscription
	nextID uint64
	mu     sync.RWMutex
}

// NewHub creates a new, empty [Hub].
func NewHub() *Hub {
	return &Hub{}
}

// Subscription is a handler attached to a [Hub].
type Subscription struct {
	hub     *Hub
	handler Handler
	once    sync.Once
	id      uint64
}

// Attach adds h to the hub.
func (h *Hub) Attach(handler Handler) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{hub: h, handler: handler, id: h.nextID}
	h.subs = append(h.subs, sub)

	return sub
}

// Detach removes the subscription from its hub. It is idempotent.
func (s *Subscription) Detach() {
	s.once.Do(func() {
		s.hub.remove(s.id)
	})
}

// Dispatch delivers in to every attached handler and returns their
// outcomes in attach order. Handlers run without the hub's lock held, so a
// handler may attach or detach subscriptions.
func (h *Hub) Dispatch(in gesture.Input) []gesture.Outcome {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, sub := range h.subs {
		handlers = append(handlers, sub.handler)
	}
	h.mu.RUnlock()

	outs := make([]gesture.Outcome, 0, len(handlers))
	for _, handler := range handlers {
		outs = append(outs, handler.Handle(in))
	}

	return outs
}

// Len returns the number of attached subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, sub := range h.subs {
		if sub.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}
