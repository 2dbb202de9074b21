package flow

// State is the conversational phase of a room-service call.
type State string

const (
	StateGreeting          State = "greeting"
	StateMenuBrowse        State = "menu_browse"
	StateShowSearchResults State = "show_search_results"
	StateShowCategoryItems State = "show_category_items"
	StateItemAdded         State = "item_added"
	StateOrderReview       State = "order_review"
	StateOrderPlaced       State = "order_placed"
	StateOrderCancelled    State = "order_cancelled"
	StateInvalidRoom       State = "invalid_room"
	StateOrderFailed       State = "order_failed"
)

// Terminal reports whether the call is over in this state.
func (s State) Terminal() bool {
	return s == StateOrderPlaced || s == StateOrderCancelled
}

// Function names exposed to the speech provider.
const (
	FuncProvideRoomNumber  = "provide_room_number"
	FuncBrowseMenu         = "browse_menu"
	FuncSearchItems        = "search_items"
	FuncSelectCategory     = "select_category"
	FuncAddItem            = "add_item_to_order"
	FuncRemoveItem         = "remove_item_from_order"
	FuncReviewOrder        = "review_current_order"
	FuncConfirmOrder       = "confirm_final_order"
	FuncModifyOrder        = "modify_order"
	FuncCancelOrder        = "cancel_order"
	FuncSetSpecialRequests = "set_special_requests"
)

// transitions maps (state, function) to the state entered when the function
// succeeds. Handlers that branch (room validation, order submission) override
// the target on their failure paths.
var transitions = map[State]map[string]State{
	StateGreeting: {
		FuncProvideRoomNumber: StateMenuBrowse,
		FuncCancelOrder:       StateOrderCancelled,
	},
	StateInvalidRoom: {
		FuncProvideRoomNumber: StateMenuBrowse,
		FuncCancelOrder:       StateOrderCancelled,
	},
	StateMenuBrowse: {
		FuncBrowseMenu:     StateMenuBrowse,
		FuncSearchItems:    StateShowSearchResults,
		FuncSelectCategory: StateShowCategoryItems,
		FuncAddItem:        StateItemAdded,
		FuncReviewOrder:    StateOrderReview,
		FuncCancelOrder:    StateOrderCancelled,
	},
	StateShowSearchResults: {
		FuncBrowseMenu:     StateMenuBrowse,
		FuncSearchItems:    StateShowSearchResults,
		FuncSelectCategory: StateShowCategoryItems,
		FuncAddItem:        StateItemAdded,
		FuncReviewOrder:    StateOrderReview,
		FuncCancelOrder:    StateOrderCancelled,
	},
	StateShowCategoryItems: {
		FuncBrowseMenu:     StateMenuBrowse,
		FuncSearchItems:    StateShowSearchResults,
		FuncSelectCategory: StateShowCategoryItems,
		FuncAddItem:        StateItemAdded,
		FuncReviewOrder:    StateOrderReview,
		FuncCancelOrder:    StateOrderCancelled,
	},
	StateItemAdded: {
		FuncBrowseMenu:         StateMenuBrowse,
		FuncSearchItems:        StateShowSearchResults,
		FuncSelectCategory:     StateShowCategoryItems,
		FuncAddItem:            StateItemAdded,
		FuncRemoveItem:         StateItemAdded,
		FuncReviewOrder:        StateOrderReview,
		FuncConfirmOrder:       StateOrderPlaced,
		FuncSetSpecialRequests: StateItemAdded,
		FuncCancelOrder:        StateOrderCancelled,
	},
	StateOrderReview: {
		FuncConfirmOrder:       StateOrderPlaced,
		FuncModifyOrder:        StateMenuBrowse,
		FuncAddItem:            StateItemAdded,
		FuncRemoveItem:         StateOrderReview,
		FuncReviewOrder:        StateOrderReview,
		FuncSetSpecialRequests: StateOrderReview,
		FuncCancelOrder:        StateOrderCancelled,
	},
	StateOrderFailed: {
		FuncConfirmOrder: StateOrderPlaced,
		FuncModifyOrder:  StateMenuBrowse,
		FuncReviewOrder:  StateOrderReview,
		FuncCancelOrder:  StateOrderCancelled,
	},
}

// NextState returns the state entered when function succeeds in state s, and
// whether the function is allowed there at all.
func NextState(s State, function string) (State, bool) {
	allowed, ok := transitions[s]
	if !ok {
		return s, false
	}
	next, ok := allowed[function]
	return next, ok
}
