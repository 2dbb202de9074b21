package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalStates(t *testing.T) {
	assert.True(t, StateOrderPlaced.Terminal())
	assert.True(t, StateOrderCancelled.Terminal())
	assert.False(t, StateGreeting.Terminal())
	assert.False(t, StateOrderFailed.Terminal())
	assert.False(t, StateInvalidRoom.Terminal())
}

func TestNextState(t *testing.T) {
	next, ok := NextState(StateGreeting, FuncProvideRoomNumber)
	assert.True(t, ok)
	assert.Equal(t, StateMenuBrowse, next)

	next, ok = NextState(StateOrderReview, FuncConfirmOrder)
	assert.True(t, ok)
	assert.Equal(t, StateOrderPlaced, next)

	next, ok = NextState(StateOrderFailed, FuncConfirmOrder)
	assert.True(t, ok)
	assert.Equal(t, StateOrderPlaced, next)

	// A guest can place the order straight after adding an item.
	next, ok = NextState(StateItemAdded, FuncConfirmOrder)
	assert.True(t, ok)
	assert.Equal(t, StateOrderPlaced, next)

	// Ordering functions are not reachable before room validation.
	_, ok = NextState(StateGreeting, FuncAddItem)
	assert.False(t, ok)
	_, ok = NextState(StateGreeting, FuncConfirmOrder)
	assert.False(t, ok)

	// Terminal states allow nothing.
	_, ok = NextState(StateOrderPlaced, FuncAddItem)
	assert.False(t, ok)
	_, ok = NextState(StateOrderCancelled, FuncProvideRoomNumber)
	assert.False(t, ok)
}
