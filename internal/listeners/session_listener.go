package listeners

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/events"
	"github.com/grandplaza/roomvoice/pkg/logger"
)

// CallStats are running totals over the process lifetime, surfaced on the
// health endpoint.
type CallStats struct {
	SessionsStarted   int64 `json:"sessions_started"`
	SessionsFinalized int64 `json:"sessions_finalized"`
	OrdersPlaced      int64 `json:"orders_placed"`
}

var (
	sessionsStarted   atomic.Int64
	sessionsFinalized atomic.Int64
	ordersPlaced      atomic.Int64

	initOnce sync.Once
)

// InitSessionListeners subscribes the lifecycle consumers on the global bus.
func InitSessionListeners() {
	initOnce.Do(func() {
		bus := events.GetEventBus()

		bus.Subscribe(events.SessionStarted, func(event events.Event) error {
			sessionsStarted.Add(1)
			logger.Info("call session opened",
				zap.Any("sessionId", event.Data["sessionId"]))
			return nil
		})

		bus.Subscribe(events.SessionFinalized, func(event events.Event) error {
			sessionsFinalized.Add(1)
			logger.Info("call session closed",
				zap.Any("sessionId", event.Data["sessionId"]),
				zap.Any("status", event.Data["status"]),
				zap.Any("orderId", event.Data["orderId"]))
			return nil
		})

		bus.Subscribe(events.OrderPlaced, func(event events.Event) error {
			ordersPlaced.Add(1)
			logger.Info("order placed",
				zap.Any("orderId", event.Data["orderId"]),
				zap.Any("reference", event.Data["reference"]),
				zap.Any("guestId", event.Data["guestId"]))
			return nil
		})

		logger.Info("session listeners ready")
	})
}

// Stats returns the current totals.
func Stats() CallStats {
	return CallStats{
		SessionsStarted:   sessionsStarted.Load(),
		SessionsFinalized: sessionsFinalized.Load(),
		OrdersPlaced:      ordersPlaced.Load(),
	}
}
