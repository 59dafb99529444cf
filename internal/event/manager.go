// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/veil/internal/logger"
)

// Handler is called for each dispatched event of the subscribed type.
// Returning true marks the event as consumed and stops further handlers.
type Handler func(e Event) bool

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and synchronous dispatching.
type Manager struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[Type][]subscription
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler for an event type and returns its subscription ID.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Handler %d subscribed to %v", id, eventType)
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (m *Manager) Unsubscribe(id SubscriptionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for t, subs := range m.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			if len(kept) == 0 {
				delete(m.handlers, t)
			} else {
				m.handlers[t] = kept
			}
			logger.DebugTagf("event", "Handler %d unsubscribed from %v", id, t)
			return true
		}
	}
	return false
}

// HandlerCount returns the number of handlers subscribed to a type.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}

// Dispatch sends an event to all handlers for its type, in subscription order.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	e := Event{Type: eventType, Data: data}

	m.mu.RLock()
	subs := m.handlers[eventType]
	// Copy so handlers may unsubscribe themselves during dispatch.
	subsCopy := make([]subscription, len(subs))
	copy(subsCopy, subs)
	m.mu.RUnlock()

	if len(subsCopy) == 0 {
		return
	}

	for _, s := range subsCopy {
		if s.handler(e) {
			break
		}
	}
}
