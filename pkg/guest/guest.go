package guest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/grandplaza/roomvoice/pkg/errhandler"
)

// GuestRef identifies the registered guest for a room.
type GuestRef struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	RoomNumber string `json:"room_number"`
	Active     bool   `json:"is_active"`
}

// FullName joins the guest's first and last name for prompts.
func (g *GuestRef) FullName() string {
	if g.FirstName == "" {
		return g.LastName
	}
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}

// ErrRoomNotFound means the room has no registered guest.
var ErrRoomNotFound = errhandler.NewValidationError("guest", "no guest registered for room")

// Directory looks up the guest registered to a room number.
type Directory interface {
	LookupRoom(ctx context.Context, roomNumber string) (*GuestRef, error)
}

// Client resolves guests through the property-management backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// LookupRoom fetches the guest registered for roomNumber. A 404 from the
// backend maps to ErrRoomNotFound; transport failures come back transient so
// callers can retry the turn.
func (c *Client) LookupRoom(ctx context.Context, roomNumber string) (*GuestRef, error) {
	var ref GuestRef
	err := requests.
		URL(c.baseURL).
		Pathf("/api/v1/guests/room/%s", roomNumber).
		Client(c.http).
		ToJSON(&ref).
		Fetch(ctx)
	if err != nil {
		if requests.HasStatusErr(err, http.StatusNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errhandler.NewTransientError("guest", fmt.Sprintf("lookup room %s", roomNumber), err)
	}
	if !ref.Active {
		return nil, ErrRoomNotFound
	}
	return &ref, nil
}
