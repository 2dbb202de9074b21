package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/errhandler"
	"github.com/grandplaza/roomvoice/pkg/events"
	"github.com/grandplaza/roomvoice/pkg/logger"
)

// Receipt is the backend's acknowledgement of a placed order.
type Receipt struct {
	OrderID     string `json:"id"`
	ReferenceID string `json:"order_number"`
}

// Submitter places a finalized cart with the kitchen backend.
type Submitter interface {
	Submit(ctx context.Context, guestID string, cart *Cart) (*Receipt, error)
}

type orderItemPayload struct {
	MenuItemID   string `json:"menu_item_id"`
	Quantity     int    `json:"quantity"`
	SpecialNotes string `json:"special_notes,omitempty"`
}

type orderPayload struct {
	GuestID         string             `json:"guest_id"`
	OrderItems      []orderItemPayload `json:"order_items"`
	SpecialRequests string             `json:"special_requests,omitempty"`
	DeliveryNotes   string             `json:"delivery_notes,omitempty"`
}

// Client posts orders to the room-service backend.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

func (c *Client) Submit(ctx context.Context, guestID string, cart *Cart) (*Receipt, error) {
	payload := orderPayload{
		GuestID:         guestID,
		SpecialRequests: cart.SpecialRequests(),
		DeliveryNotes:   cart.DeliveryNotes(),
	}
	for _, line := range cart.Lines() {
		payload.OrderItems = append(payload.OrderItems, orderItemPayload{
			MenuItemID:   line.MenuItemID,
			Quantity:     line.Quantity,
			SpecialNotes: line.SpecialNotes,
		})
	}

	var receipt Receipt
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&receipt).
		Post("/api/v1/orders/")
	if err != nil {
		return nil, errhandler.NewTransientError("order", "submit order", err)
	}
	if resp.IsError() {
		return nil, errhandler.NewTransientError("order",
			fmt.Sprintf("submit order: backend returned %d", resp.StatusCode()), nil)
	}
	return &receipt, nil
}

// Outcome records what happened to the one in-flight or settled submission.
type Outcome struct {
	Revision uint64
	Receipt  *Receipt
	Err      error
	Settled  bool
}

// Gateway wraps a Submitter with at-most-once semantics per cart revision: a
// revision that already succeeded is never resubmitted, and a failed revision
// is retried only when the caller dispatches it again explicitly.
type Gateway struct {
	submitter Submitter

	mu        sync.Mutex
	submitted map[uint64]*Outcome
	last      *Outcome
}

func NewGateway(submitter Submitter) *Gateway {
	return &Gateway{
		submitter: submitter,
		submitted: make(map[uint64]*Outcome),
	}
}

// ErrAlreadyPlaced means this exact cart state was already accepted.
var ErrAlreadyPlaced = errhandler.NewValidationError("order", "this order was already placed")

// Submit places the cart's current revision. The same revision succeeds at
// most once; repeating a succeeded revision returns ErrAlreadyPlaced with the
// original receipt.
func (g *Gateway) Submit(ctx context.Context, guestID string, cart *Cart) (*Receipt, error) {
	revision := cart.Revision()

	g.mu.Lock()
	if prior, ok := g.submitted[revision]; ok && prior.Settled && prior.Err == nil {
		g.mu.Unlock()
		return prior.Receipt, ErrAlreadyPlaced
	}
	outcome := &Outcome{Revision: revision}
	g.submitted[revision] = outcome
	g.last = outcome
	g.mu.Unlock()

	receipt, err := g.submitter.Submit(ctx, guestID, cart)

	g.mu.Lock()
	outcome.Receipt = receipt
	outcome.Err = err
	outcome.Settled = true
	g.mu.Unlock()

	if err != nil {
		logger.Warn("order submission failed",
			zap.Uint64("revision", revision), zap.Error(err))
		return nil, err
	}

	logger.Info("order placed",
		zap.String("orderId", receipt.OrderID),
		zap.String("reference", receipt.ReferenceID))
	events.GetEventBus().Publish(events.Event{
		Type:      events.OrderPlaced,
		Timestamp: time.Now(),
		Source:    "order.gateway",
		Data: map[string]interface{}{
			"orderId":   receipt.OrderID,
			"reference": receipt.ReferenceID,
			"guestId":   guestID,
		},
	})
	return receipt, nil
}

// LastOutcome reports the most recent submission attempt, settled or not.
// Session finalization consults it once to decide the terminal status.
func (g *Gateway) LastOutcome() *Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
