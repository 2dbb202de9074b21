package menu

import (
	"context"
	"time"

	"github.com/grandplaza/roomvoice/pkg/logger"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const snapshotCacheKey = "menu.snapshot"

// Catalog serves immutable snapshots of the menu. Snapshots are shared
// across concurrent calls through a TTL cache so each call does not refetch
// the whole menu from the collaborator.
type Catalog struct {
	source Source
	cache  *gocache.Cache
}

// NewCatalog builds a catalog over the given source. ttl bounds snapshot
// staleness across calls.
func NewCatalog(source Source, ttl time.Duration) *Catalog {
	return &Catalog{
		source: source,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// Snapshot returns the current catalog view. A cached snapshot is returned
// as-is; it is never mutated, so sharing across calls needs no locking.
func (c *Catalog) Snapshot(ctx context.Context) (*Snapshot, error) {
	if cached, ok := c.cache.Get(snapshotCacheKey); ok {
		return cached.(*Snapshot), nil
	}

	categories, err := c.source.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	items, err := c.source.FetchItems(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Categories: categories, Items: items}
	c.cache.SetDefault(snapshotCacheKey, snap)
	logger.Debug("menu snapshot refreshed",
		zap.Int("categories", len(categories)), zap.Int("items", len(items)))
	return snap, nil
}

// Invalidate drops the cached snapshot so the next call refetches.
func (c *Catalog) Invalidate() {
	c.cache.Delete(snapshotCacheKey)
}
