package guest

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/grandplaza/roomvoice/pkg/logger"
	"go.uber.org/zap"
)

// CachedDirectory caches successful room lookups in front of another
// Directory. Misses and errors are never cached, so a guest checking in
// mid-call is picked up on the next attempt.
type CachedDirectory struct {
	inner Directory
	cache *lru.Cache[string, *GuestRef]
}

func NewCachedDirectory(inner Directory, size int) (*CachedDirectory, error) {
	cache, err := lru.New[string, *GuestRef](size)
	if err != nil {
		return nil, err
	}
	return &CachedDirectory{inner: inner, cache: cache}, nil
}

func (d *CachedDirectory) LookupRoom(ctx context.Context, roomNumber string) (*GuestRef, error) {
	if ref, ok := d.cache.Get(roomNumber); ok {
		return ref, nil
	}
	ref, err := d.inner.LookupRoom(ctx, roomNumber)
	if err != nil {
		if !errors.Is(err, ErrRoomNotFound) {
			logger.Warn("guest lookup failed", zap.String("room", roomNumber), zap.Error(err))
		}
		return nil, err
	}
	d.cache.Add(roomNumber, ref)
	return ref, nil
}

// Evict drops a cached room entry, used when the backend reports checkout.
func (d *CachedDirectory) Evict(roomNumber string) {
	d.cache.Remove(roomNumber)
}
