package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	inner *StaticSource
	calls int
	err   error
}

func (c *countingSource) FetchCategories(ctx context.Context) ([]Category, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.FetchCategories(ctx)
}

func (c *countingSource) FetchItems(ctx context.Context) ([]Item, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.FetchItems(ctx)
}

func TestCatalogSnapshotCached(t *testing.T) {
	src := &countingSource{inner: DefaultStaticSource()}
	catalog := NewCatalog(src, time.Minute)

	snap, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Items)
	assert.Equal(t, 1, src.calls)

	again, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, again)
	assert.Equal(t, 1, src.calls)
}

func TestCatalogInvalidate(t *testing.T) {
	src := &countingSource{inner: DefaultStaticSource()}
	catalog := NewCatalog(src, time.Minute)

	_, err := catalog.Snapshot(context.Background())
	require.NoError(t, err)

	catalog.Invalidate()

	_, err = catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCatalogSnapshotFetchError(t *testing.T) {
	src := &countingSource{inner: DefaultStaticSource(), err: errors.New("upstream down")}
	catalog := NewCatalog(src, time.Minute)

	_, err := catalog.Snapshot(context.Background())
	assert.Error(t, err)
}
