package flow

import "encoding/json"

func (m *Manager) registerTools() {
	m.register(FuncProvideRoomNumber,
		"Record the guest's room number so the order can be validated and delivered.",
		`{"type":"object","properties":{"room_number":{"type":"string","description":"The room number spoken by the guest"}},"required":["room_number"]}`,
		m.handleProvideRoom)

	m.register(FuncBrowseMenu,
		"Read out the menu categories when the guest asks what is available.",
		`{"type":"object","properties":{}}`,
		m.handleBrowseMenu)

	m.register(FuncSearchItems,
		"Search the menu for a dish the guest named.",
		`{"type":"object","properties":{"query":{"type":"string","description":"The dish name the guest asked about"}},"required":["query"]}`,
		m.handleSearchItems)

	m.register(FuncSelectCategory,
		"List the items in one menu category.",
		`{"type":"object","properties":{"category":{"type":"string","description":"The category name, e.g. Breakfast or Desserts"}},"required":["category"]}`,
		m.handleSelectCategory)

	m.register(FuncAddItem,
		"Add a menu item to the guest's order.",
		`{"type":"object","properties":{"item_name":{"type":"string","description":"The menu item name"},"quantity":{"type":"string","description":"How many, as spoken, e.g. 'two' or '3'"},"special_notes":{"type":"string","description":"Preparation notes for this item"}},"required":["item_name"]}`,
		m.handleAddItem)

	m.register(FuncRemoveItem,
		"Remove an item from the guest's order.",
		`{"type":"object","properties":{"item_name":{"type":"string","description":"The item to remove"}},"required":["item_name"]}`,
		m.handleRemoveItem)

	m.register(FuncReviewOrder,
		"Read the current order back to the guest with the total.",
		`{"type":"object","properties":{}}`,
		m.handleReviewOrder)

	m.register(FuncConfirmOrder,
		"Place the order with the kitchen after the guest confirms it.",
		`{"type":"object","properties":{}}`,
		m.handleConfirmOrder)

	m.register(FuncModifyOrder,
		"Return to browsing so the guest can change the order before placing it.",
		`{"type":"object","properties":{}}`,
		m.handleModifyOrder)

	m.register(FuncCancelOrder,
		"Cancel the order and end the call.",
		`{"type":"object","properties":{}}`,
		m.handleCancelOrder)

	m.register(FuncSetSpecialRequests,
		"Record order-level special requests or delivery instructions.",
		`{"type":"object","properties":{"special_requests":{"type":"string","description":"Allergies or kitchen requests"},"delivery_notes":{"type":"string","description":"Delivery instructions for the room"}}}`,
		m.handleSetSpecialRequests)
}

func (m *Manager) register(name, description, parameters string, handler handlerFunc) {
	m.tools[name] = &toolDefinition{
		name:        name,
		description: description,
		parameters:  json.RawMessage(parameters),
		handler:     handler,
	}
}
