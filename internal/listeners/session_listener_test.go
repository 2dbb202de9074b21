package listeners

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grandplaza/roomvoice/pkg/events"
)

func TestSessionListenersCountLifecycleEvents(t *testing.T) {
	InitSessionListeners()
	before := Stats()

	bus := events.GetEventBus()
	bus.Publish(events.Event{
		Type:   events.SessionStarted,
		Source: "session.runner",
		Data:   map[string]interface{}{"sessionId": "call_test"},
	})
	bus.Publish(events.Event{
		Type:   events.OrderPlaced,
		Source: "order.gateway",
		Data:   map[string]interface{}{"orderId": "order-1", "reference": "RS-1001"},
	})
	bus.Publish(events.Event{
		Type:   events.SessionFinalized,
		Source: "session.runner",
		Data:   map[string]interface{}{"sessionId": "call_test", "status": "COMPLETED"},
	})

	after := Stats()
	assert.Equal(t, before.SessionsStarted+1, after.SessionsStarted)
	assert.Equal(t, before.OrdersPlaced+1, after.OrdersPlaced)
	assert.Equal(t, before.SessionsFinalized+1, after.SessionsFinalized)
}

func TestInitSessionListenersIdempotent(t *testing.T) {
	InitSessionListeners()
	before := Stats()

	// A second init must not double-subscribe.
	InitSessionListeners()
	events.GetEventBus().Publish(events.Event{
		Type: events.SessionStarted,
		Data: map[string]interface{}{"sessionId": "call_again"},
	})

	assert.Equal(t, before.SessionsStarted+1, Stats().SessionsStarted)
}
