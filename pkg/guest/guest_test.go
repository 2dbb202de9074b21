package guest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	calls int
	refs  map[string]*GuestRef
	err   error
}

func (s *stubDirectory) LookupRoom(ctx context.Context, roomNumber string) (*GuestRef, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	ref, ok := s.refs[roomNumber]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return ref, nil
}

func TestClientLookupRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/guests/room/412":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"guest-1","first_name":"Maria","last_name":"Lopez","room_number":"412","is_active":true}`))
		case "/api/v1/guests/room/999":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	ref, err := client.LookupRoom(context.Background(), "412")
	require.NoError(t, err)
	assert.Equal(t, "guest-1", ref.ID)
	assert.Equal(t, "Maria Lopez", ref.FullName())

	_, err = client.LookupRoom(context.Background(), "999")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = client.LookupRoom(context.Background(), "500")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRoomNotFound)
}

func TestClientLookupRoomInactiveGuest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"guest-2","first_name":"Jan","room_number":"101","is_active":false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	_, err := client.LookupRoom(context.Background(), "101")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCachedDirectoryCachesHits(t *testing.T) {
	stub := &stubDirectory{refs: map[string]*GuestRef{
		"412": {ID: "guest-1", FirstName: "Maria", RoomNumber: "412", Active: true},
	}}
	dir, err := NewCachedDirectory(stub, 16)
	require.NoError(t, err)

	ref, err := dir.LookupRoom(context.Background(), "412")
	require.NoError(t, err)
	assert.Equal(t, "guest-1", ref.ID)

	_, err = dir.LookupRoom(context.Background(), "412")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedDirectoryDoesNotCacheMisses(t *testing.T) {
	stub := &stubDirectory{refs: map[string]*GuestRef{}}
	dir, err := NewCachedDirectory(stub, 16)
	require.NoError(t, err)

	_, err = dir.LookupRoom(context.Background(), "777")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	stub.refs["777"] = &GuestRef{ID: "guest-3", RoomNumber: "777", Active: true}
	ref, err := dir.LookupRoom(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, "guest-3", ref.ID)
	assert.Equal(t, 2, stub.calls)
}

func TestCachedDirectoryEvict(t *testing.T) {
	stub := &stubDirectory{refs: map[string]*GuestRef{
		"210": {ID: "guest-4", RoomNumber: "210", Active: true},
	}}
	dir, err := NewCachedDirectory(stub, 16)
	require.NoError(t, err)

	_, err = dir.LookupRoom(context.Background(), "210")
	require.NoError(t, err)

	dir.Evict("210")

	_, err = dir.LookupRoom(context.Background(), "210")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestCachedDirectoryPropagatesErrors(t *testing.T) {
	stub := &stubDirectory{err: errors.New("backend down")}
	dir, err := NewCachedDirectory(stub, 16)
	require.NoError(t, err)

	_, err = dir.LookupRoom(context.Background(), "412")
	assert.Error(t, err)
}
