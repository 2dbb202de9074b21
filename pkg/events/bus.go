package events

import (
	"sync"
	"time"

	"github.com/grandplaza/roomvoice/pkg/logger"
	"go.uber.org/zap"
)

// Well-known event types published by the orchestration core.
const (
	SessionStarted   = "session.started"
	SessionFinalized = "session.finalized"
	OrderPlaced      = "order.placed"
)

// Event is a lifecycle notification emitted by the core.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Source    string                 `json:"source"`
}

// EventHandler consumes one event. Handler errors are logged, not propagated;
// the call outcome never depends on a listener.
type EventHandler func(event Event) error

// EventBus is a simple in-process publish/subscribe bus.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

var globalBus *EventBus
var once sync.Once

// GetEventBus returns the global bus instance.
func GetEventBus() *EventBus {
	once.Do(func() {
		globalBus = &EventBus{
			handlers: make(map[string][]EventHandler),
		}
	})
	return globalBus
}

// Subscribe registers a handler for an event type.
func (bus *EventBus) Subscribe(eventType string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventType] = append(bus.handlers[eventType], handler)
}

// Publish delivers the event to all handlers registered for its type.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	handlers := append([]EventHandler(nil), bus.handlers[event.Type]...)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			logger.Warn("event handler failed",
				zap.String("eventType", event.Type), zap.Error(err))
		}
	}
}
