package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/errhandler"
	"github.com/grandplaza/roomvoice/pkg/guest"
	"github.com/grandplaza/roomvoice/pkg/logger"
	"github.com/grandplaza/roomvoice/pkg/menu"
	"github.com/grandplaza/roomvoice/pkg/order"
)

// handlerFunc runs one function invocation. A non-empty override replaces the
// transition-table target; validation errors hold the current state.
type handlerFunc func(ctx context.Context, args map[string]interface{}) (reply string, override State, err error)

type toolDefinition struct {
	name        string
	description string
	parameters  json.RawMessage
	handler     handlerFunc
}

// Manager drives one call's conversation: it owns the state machine, the
// cart, and the function-tool surface the speech provider invokes. All
// methods are safe for the single dispatch goroutine plus observers.
type Manager struct {
	mu sync.Mutex

	state     State
	cart      *order.Cart
	catalog   *menu.Catalog
	directory guest.Directory
	gateway   *order.Gateway

	guest      *guest.GuestRef
	roomNumber string

	currentCategory string
	lastSearch      []string
	startedAt       time.Time

	roomAttempts   int
	roomRetryLimit int
	ended          bool

	orderID   string
	reference string

	tools map[string]*toolDefinition
}

func NewManager(catalog *menu.Catalog, directory guest.Directory, gateway *order.Gateway, roomRetryLimit int) *Manager {
	if roomRetryLimit < 1 {
		roomRetryLimit = 3
	}
	m := &Manager{
		state:          StateGreeting,
		cart:           order.NewCart(),
		catalog:        catalog,
		directory:      directory,
		gateway:        gateway,
		roomRetryLimit: roomRetryLimit,
		startedAt:      time.Now(),
		tools:          make(map[string]*toolDefinition),
	}
	m.registerTools()
	return m
}

// State returns the current conversational state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Done reports whether the call can make no further progress, either because
// a terminal state was reached or because room validation was exhausted.
func (m *Manager) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended || m.state.Terminal()
}

// Cart exposes the call's order cart.
func (m *Manager) Cart() *order.Cart {
	return m.cart
}

// Context snapshots the conversation for recording.
func (m *Manager) Context() ConversationContext {
	m.mu.Lock()
	defer m.mu.Unlock()

	cc := ConversationContext{
		State:             m.state,
		RoomNumber:        m.roomNumber,
		OrderID:           m.orderID,
		Reference:         m.reference,
		CartLines:         m.cart.Lines(),
		CartTotal:         m.cart.Total(),
		CurrentCategory:   m.currentCategory,
		LastSearchResults: append([]string(nil), m.lastSearch...),
		StartedAt:         m.startedAt,
	}
	if m.guest != nil {
		cc.GuestID = m.guest.ID
		cc.GuestName = m.guest.FullName()
	}
	return cc
}

// Tools returns the function-tool definitions to register with the provider.
func (m *Manager) Tools() []openai.Tool {
	tools := make([]openai.Tool, 0, len(m.tools))
	for _, def := range m.tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.name,
				Description: def.description,
				Parameters:  def.parameters,
			},
		})
	}
	return tools
}

// Greeting is the opening line spoken when the call connects.
func (m *Manager) Greeting() string {
	return "Good day, thank you for calling room service. May I have your room number?"
}

// Dispatch runs one function invocation against the state machine. Functions
// not allowed in the current state, and validation failures inside allowed
// functions, hold the state and return a guest-facing message. Transient and
// fatal failures come back as errors.
func (m *Manager) Dispatch(ctx context.Context, name, argsJSON string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ended || m.state.Terminal() {
		return "This call has ended. Please call room service again to place a new order.", nil
	}

	def, exists := m.tools[name]
	if !exists {
		return "", fmt.Errorf("unknown function tool: %s", name)
	}

	next, allowed := NextState(m.state, name)
	if !allowed {
		logger.Debug("function not allowed in state",
			zap.String("function", name), zap.String("state", string(m.state)))
		return m.notAllowedReply(name), nil
	}

	args := map[string]interface{}{}
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", fmt.Errorf("parse arguments for %s: %w", name, err)
		}
	}

	reply, override, err := def.handler(ctx, args)
	if err != nil {
		var verr *errhandler.Error
		if errors.As(err, &verr) && verr.Type == errhandler.ErrorTypeValidation {
			return verr.Message, nil
		}
		logger.Error("function dispatch failed",
			zap.String("function", name),
			zap.String("state", string(m.state)),
			zap.Error(err))
		return "", err
	}

	prev := m.state
	if override != "" {
		m.state = override
	} else {
		m.state = next
	}
	if prev != m.state {
		logger.Debug("state transition",
			zap.String("function", name),
			zap.String("from", string(prev)),
			zap.String("to", string(m.state)))
	}
	return reply, nil
}

func (m *Manager) notAllowedReply(name string) string {
	switch m.state {
	case StateGreeting, StateInvalidRoom:
		return "Before we get to your order, could you tell me your room number?"
	default:
		return "I can't do that right now. You can browse the menu, add items, review your order, or cancel."
	}
}

func (m *Manager) handleProvideRoom(ctx context.Context, args map[string]interface{}) (string, State, error) {
	room := strings.TrimSpace(stringArg(args, "room_number"))
	if room == "" {
		return "", "", errhandler.NewValidationError("flow", "Could you repeat your room number?")
	}

	ref, err := m.directory.LookupRoom(ctx, room)
	if err != nil {
		if errors.Is(err, guest.ErrRoomNotFound) {
			m.roomAttempts++
			if m.roomAttempts >= m.roomRetryLimit {
				m.ended = true
				logger.Warn("room validation exhausted",
					zap.String("room", room), zap.Int("attempts", m.roomAttempts))
				return "I'm sorry, I can't verify that room number. Please contact the front desk for assistance. Goodbye.",
					StateInvalidRoom, nil
			}
			return fmt.Sprintf("I couldn't find a guest registered for room %s. Could you double-check the number?", room),
				StateInvalidRoom, nil
		}
		return "", "", err
	}

	m.guest = ref
	m.roomNumber = room
	logger.Info("room validated",
		zap.String("room", room), zap.String("guestId", ref.ID))
	return fmt.Sprintf("Thank you, %s. What would you like to order? I can read you the menu categories, or you can ask for something directly.", ref.FullName()),
		"", nil
}

func (m *Manager) handleBrowseMenu(ctx context.Context, args map[string]interface{}) (string, State, error) {
	snap, err := m.catalog.Snapshot(ctx)
	if err != nil {
		return "", "", err
	}
	cats := snap.ActiveCategories()
	if len(cats) == 0 {
		return "", "", errhandler.NewValidationError("flow", "The menu is being updated right now. Please try again in a moment.")
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return "We have " + strings.Join(names, ", ") + ". Which would you like to hear about?", "", nil
}

func (m *Manager) handleSearchItems(ctx context.Context, args map[string]interface{}) (string, State, error) {
	query := strings.TrimSpace(stringArg(args, "query"))
	if query == "" {
		return "", "", errhandler.NewValidationError("flow", "What would you like me to look for?")
	}
	snap, err := m.catalog.Snapshot(ctx)
	if err != nil {
		return "", "", err
	}
	item, err := snap.ResolveItem(query)
	if err != nil {
		return "", "", errhandler.NewValidationError("flow",
			fmt.Sprintf("I couldn't find %s on our menu. Would you like to hear the categories?", query))
	}
	m.lastSearch = []string{item.Name}
	return fmt.Sprintf("We have %s for $%.2f. %s Would you like to add it to your order?",
		item.Name, item.Price, item.Description), "", nil
}

func (m *Manager) handleSelectCategory(ctx context.Context, args map[string]interface{}) (string, State, error) {
	name := strings.TrimSpace(stringArg(args, "category"))
	if name == "" {
		return "", "", errhandler.NewValidationError("flow", "Which category would you like?")
	}
	snap, err := m.catalog.Snapshot(ctx)
	if err != nil {
		return "", "", err
	}
	cat, err := snap.ResolveCategory(name)
	if err != nil {
		return "", "", errhandler.NewValidationError("flow",
			fmt.Sprintf("I don't have a %s section. Would you like to hear the categories?", name))
	}
	items := snap.ItemsInCategory(cat.ID)
	if len(items) == 0 {
		return "", "", errhandler.NewValidationError("flow",
			fmt.Sprintf("Nothing in %s is available right now. Can I interest you in something else?", cat.Name))
	}
	m.currentCategory = cat.Name
	parts := make([]string, len(items))
	names := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s for $%.2f", it.Name, it.Price)
		names[i] = it.Name
	}
	m.lastSearch = names
	return fmt.Sprintf("From %s we have %s.", cat.Name, strings.Join(parts, ", ")), "", nil
}

func (m *Manager) handleAddItem(ctx context.Context, args map[string]interface{}) (string, State, error) {
	name := strings.TrimSpace(stringArg(args, "item_name"))
	if name == "" {
		return "", "", errhandler.NewValidationError("flow", "Which item would you like to add?")
	}
	snap, err := m.catalog.Snapshot(ctx)
	if err != nil {
		return "", "", err
	}
	item, err := snap.ResolveItem(name)
	if err != nil {
		return "", "", errhandler.NewValidationError("flow",
			fmt.Sprintf("I couldn't find %s on our menu. Could you try another item?", name))
	}

	qty, defaulted := quantityArg(args, "quantity")
	notes := strings.TrimSpace(stringArg(args, "special_notes"))

	if err := m.cart.AddItem(item.ID, item.Name, qty, item.Price, notes); err != nil {
		return "", "", err
	}

	reply := fmt.Sprintf("I've added %d %s to your order. Anything else?", qty, item.Name)
	if defaulted {
		reply = fmt.Sprintf("I've added 1 %s to your order. Let me know if you wanted a different quantity. Anything else?", item.Name)
	}
	return reply, "", nil
}

func (m *Manager) handleRemoveItem(ctx context.Context, args map[string]interface{}) (string, State, error) {
	name := strings.TrimSpace(stringArg(args, "item_name"))
	if name == "" {
		return "", "", errhandler.NewValidationError("flow", "Which item should I remove?")
	}
	if err := m.cart.RemoveItem(name); err != nil {
		return "", "", err
	}
	if m.cart.IsEmpty() {
		return fmt.Sprintf("I've removed %s. Your order is now empty. What would you like instead?", name), "", nil
	}
	return fmt.Sprintf("I've removed %s. %s", name, m.cart.Summarize()), "", nil
}

func (m *Manager) handleReviewOrder(ctx context.Context, args map[string]interface{}) (string, State, error) {
	if m.cart.IsEmpty() {
		return "", "", errhandler.NewValidationError("flow", "Your order is empty. Would you like to hear the menu?")
	}
	return m.cart.Summarize() + " Shall I place the order?", "", nil
}

func (m *Manager) handleConfirmOrder(ctx context.Context, args map[string]interface{}) (string, State, error) {
	if m.cart.IsEmpty() {
		return "", "", errhandler.NewValidationError("flow", "Your order is empty, so there's nothing to place yet. Would you like to hear the menu?")
	}
	if m.guest == nil {
		return "", "", errhandler.NewValidationError("flow", "I still need your room number before placing the order.")
	}

	receipt, err := m.gateway.Submit(ctx, m.guest.ID, m.cart)
	if err != nil {
		if errors.Is(err, order.ErrAlreadyPlaced) {
			m.orderID = receipt.OrderID
			m.reference = receipt.ReferenceID
			return fmt.Sprintf("Your order %s is already placed and on its way.", receipt.ReferenceID), "", nil
		}
		if errhandler.IsCancellation(err) {
			return "", "", err
		}
		logger.Warn("order confirmation failed", zap.Error(err))
		return "I'm sorry, I couldn't send your order to the kitchen just now. Would you like me to try again, or change the order?",
			StateOrderFailed, nil
	}

	m.orderID = receipt.OrderID
	m.reference = receipt.ReferenceID
	return fmt.Sprintf("Your order is placed. Your confirmation number is %s, and it should arrive in about 30 to 45 minutes. Enjoy!",
		receipt.ReferenceID), "", nil
}

func (m *Manager) handleModifyOrder(ctx context.Context, args map[string]interface{}) (string, State, error) {
	return "Of course. What would you like to change? You can add or remove items, or ask for the menu.", "", nil
}

func (m *Manager) handleCancelOrder(ctx context.Context, args map[string]interface{}) (string, State, error) {
	m.cart.Clear()
	return "No problem, I've cancelled the order. Feel free to call back any time. Goodbye.", "", nil
}

func (m *Manager) handleSetSpecialRequests(ctx context.Context, args map[string]interface{}) (string, State, error) {
	requests := strings.TrimSpace(stringArg(args, "special_requests"))
	delivery := strings.TrimSpace(stringArg(args, "delivery_notes"))
	if requests == "" && delivery == "" {
		return "", "", errhandler.NewValidationError("flow", "What special requests should I note for the kitchen?")
	}
	if requests != "" {
		m.cart.SetSpecialRequests(requests)
	}
	if delivery != "" {
		m.cart.SetDeliveryNotes(delivery)
	}
	return "Noted, I've added that to your order.", "", nil
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key]; ok {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}

// quantityArg reads a quantity argument that may arrive as a JSON number or
// as spoken text.
func quantityArg(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 1, true
	}
	switch t := v.(type) {
	case float64:
		n := int(t)
		if n < 1 {
			return 1, true
		}
		return n, false
	case string:
		qty, defaulted := ParseQuantity(t)
		if qty < 1 {
			return 1, true
		}
		return qty, defaulted
	default:
		return 1, true
	}
}
