package flow

import (
	"time"

	"github.com/grandplaza/roomvoice/pkg/order"
)

// ConversationContext is a point-in-time view of one call's conversational
// state, used by the session recorder at finalization and by handlers that
// report call progress.
type ConversationContext struct {
	State             State        `json:"state"`
	RoomNumber        string       `json:"room_number"`
	GuestID           string       `json:"guest_id"`
	GuestName         string       `json:"guest_name"`
	OrderID           string       `json:"order_id"`
	Reference         string       `json:"reference"`
	CartLines         []order.Line `json:"cart_lines"`
	CartTotal         float64      `json:"cart_total"`
	CurrentCategory   string       `json:"current_category,omitempty"`
	LastSearchResults []string     `json:"last_search_results,omitempty"`
	StartedAt         time.Time    `json:"started_at"`
}
