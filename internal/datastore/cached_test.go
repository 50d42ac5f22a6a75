package datastore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombiz/blitz/internal/cache"
	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/model"
)

// countingStore wraps a Store and counts queries so tests can tell
// cache hits apart from passthroughs.
type countingStore struct {
	Store
	queries int
}

func (c *countingStore) Query(ctx context.Context, schema model.Schema, filter Filter) (*container.Container, error) {
	c.queries++
	return c.Store.Query(ctx, schema, filter)
}

func testCachedStore(t *testing.T) (*CachedStore, *countingStore) {
	t.Helper()

	backing := &countingStore{Store: testStore(t)}
	svc := NewService(backing.Store)
	require.NoError(t, svc.LoadFixtures(context.Background()))

	cacheDB, err := cache.New(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cacheDB.Close() })

	return NewCachedStore(backing, cacheDB, time.Minute), backing
}

func TestCachedStoreQueryCachesResults(t *testing.T) {
	cached, backing := testCachedStore(t)
	ctx := context.Background()

	first, err := cached.Query(ctx, model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.NoError(t, err)
	require.Equal(t, 4, first.Len())
	assert.Equal(t, 1, backing.queries)

	second, err := cached.Query(ctx, model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, backing.queries, "repeat query should come from cache")
	assert.True(t, first.Equal(second))
}

func TestCachedStoreDistinctFiltersMiss(t *testing.T) {
	cached, backing := testCachedStore(t)
	ctx := context.Background()

	_, err := cached.Query(ctx, model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.NoError(t, err)
	_, err = cached.Query(ctx, model.ReadingSchema, Filter{"sessionId": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, backing.queries)
}

func TestCachedStoreUpsertInvalidates(t *testing.T) {
	cached, backing := testCachedStore(t)
	ctx := context.Background()

	before, err := cached.Query(ctx, model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.NoError(t, err)
	require.Equal(t, 4, before.Len())

	reading := model.Reading{SessionId: 1, TimeLogged: before.Record(3)["timeLogged"].(int64) + 1_000, CategoryId: 1, Value: 0.7}
	require.NoError(t, cached.Upsert(ctx, model.ReadingSchema, reading.ToRecord()))

	// the write must be visible on the next read
	after, err := cached.Query(ctx, model.ReadingSchema, Filter{"sessionId": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, 5, after.Len())
	assert.Equal(t, 2, backing.queries, "invalidation forces a fresh read")
}

func TestCachedStoreUpsertLeavesOtherModelsCached(t *testing.T) {
	cached, backing := testCachedStore(t)
	ctx := context.Background()

	_, err := cached.Query(ctx, model.CategorySchema, nil)
	require.NoError(t, err)

	reading := model.Reading{SessionId: 1, TimeLogged: 1, CategoryId: 1, Value: 0.7}
	require.NoError(t, cached.Upsert(ctx, model.ReadingSchema, reading.ToRecord()))

	_, err = cached.Query(ctx, model.CategorySchema, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.queries, "writes to one model keep other models cached")
}
