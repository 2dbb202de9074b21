package order

import (
	"fmt"
	"strings"
	"sync"

	"github.com/grandplaza/roomvoice/pkg/errhandler"
)

// Line is one cart entry for a resolved menu item.
type Line struct {
	MenuItemID   string  `json:"menu_item_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	SpecialNotes string  `json:"special_notes"`
}

// LineTotal is the line's quantity-extended price.
func (l *Line) LineTotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// Cart accumulates order lines for one call. Every mutation bumps the
// revision, which the gateway uses to keep submission at-most-once per
// confirmed cart state.
type Cart struct {
	mu              sync.Mutex
	lines           []Line
	revision        uint64
	specialRequests string
	deliveryNotes   string
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem appends a line, or bumps quantity when the item is already in the
// cart. Notes on a repeated add replace the earlier ones.
func (c *Cart) AddItem(menuItemID, name string, quantity int, unitPrice float64, notes string) error {
	if quantity < 1 {
		return errhandler.NewValidationError("order", "quantity must be at least 1")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines[i].Quantity += quantity
			if notes != "" {
				c.lines[i].SpecialNotes = notes
			}
			c.revision++
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		MenuItemID:   menuItemID,
		Name:         name,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		SpecialNotes: notes,
	})
	c.revision++
	return nil
}

// RemoveItem drops the line whose name matches case-insensitively.
func (c *Cart) RemoveItem(name string) error {
	query := strings.ToLower(strings.TrimSpace(name))
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if strings.ToLower(c.lines[i].Name) == query {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.revision++
			return nil
		}
	}
	return errhandler.NewValidationError("order", fmt.Sprintf("%s is not in the order", name))
}

// Clear empties the cart and its notes.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.specialRequests = ""
	c.deliveryNotes = ""
	c.revision++
}

// SetSpecialRequests records order-level requests, e.g. allergies.
func (c *Cart) SetSpecialRequests(requests string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specialRequests = requests
	c.revision++
}

// SetDeliveryNotes records delivery instructions for the room.
func (c *Cart) SetDeliveryNotes(notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveryNotes = notes
	c.revision++
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total recomputes the cart total from the current lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for i := range c.lines {
		total += c.lines[i].LineTotal()
	}
	return total
}

// Revision identifies the current cart state for at-most-once submission.
func (c *Cart) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// SpecialRequests returns the order-level requests.
func (c *Cart) SpecialRequests() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.specialRequests
}

// DeliveryNotes returns the delivery instructions.
func (c *Cart) DeliveryNotes() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deliveryNotes
}

// Summarize renders a spoken-friendly order summary with the running total.
func (c *Cart) Summarize() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return "Your order is empty."
	}

	var b strings.Builder
	b.WriteString("Your order: ")
	var total float64
	for i := range c.lines {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d x %s ($%.2f)", c.lines[i].Quantity, c.lines[i].Name, c.lines[i].LineTotal())
		if c.lines[i].SpecialNotes != "" {
			fmt.Fprintf(&b, " [%s]", c.lines[i].SpecialNotes)
		}
		total += c.lines[i].LineTotal()
	}
	fmt.Fprintf(&b, ". Total: $%.2f.", total)
	return b.String()
}
