package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zombiz/blitz/internal/cache"
	"github.com/zombiz/blitz/internal/container"
	"github.com/zombiz/blitz/internal/model"
)

// CachedStore decorates a Store with a local TTL cache of query
// results. Upserts write through and invalidate the model's cached
// queries, so a single-session caller still reads its own writes.
type CachedStore struct {
	store Store
	cache *cache.DB
	ttl   time.Duration
}

// cachedQuery is the JSON payload persisted per cached query
type cachedQuery struct {
	Records   []model.Record    `json:"records"`
	Source    string            `json:"source"`
	Model     string            `json:"model"`
	Units     map[string]string `json:"units,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewCachedStore wraps a store with the given query cache
func NewCachedStore(store Store, cacheDB *cache.DB, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &CachedStore{store: store, cache: cacheDB, ttl: ttl}
}

// Connect delegates to the underlying store
func (c *CachedStore) Connect(ctx context.Context) error {
	return c.store.Connect(ctx)
}

// Query serves from cache when a fresh entry exists, otherwise queries
// the underlying store and caches the result
func (c *CachedStore) Query(ctx context.Context, schema model.Schema, filter Filter) (*container.Container, error) {
	key, err := cacheKey(schema, filter)
	if err != nil {
		return c.store.Query(ctx, schema, filter)
	}

	payload, _, err := cache.GetOrFetch(c.cache, key, c.ttl, func() (cachedQuery, error) {
		result, err := c.store.Query(ctx, schema, filter)
		if err != nil {
			return cachedQuery{}, err
		}
		meta := result.Meta()
		return cachedQuery{
			Records:   result.Records(),
			Source:    meta.Source,
			Model:     meta.Model,
			Units:     meta.Units,
			CreatedAt: meta.CreatedAt,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, len(payload.Records))
	for i, rec := range payload.Records {
		records[i] = schema.Normalize(rec)
	}
	return container.New(records, container.Metadata{
		Source:    payload.Source,
		Model:     payload.Model,
		Units:     payload.Units,
		CreatedAt: payload.CreatedAt,
	}), nil
}

// Upsert writes through to the underlying store and drops the model's
// cached queries
func (c *CachedStore) Upsert(ctx context.Context, schema model.Schema, rec model.Record) error {
	if err := c.store.Upsert(ctx, schema, rec); err != nil {
		return err
	}
	if _, err := c.cache.InvalidateModel(schema.Name); err != nil {
		return fmt.Errorf("upsert succeeded but cache invalidation failed: %w", err)
	}
	return nil
}

// Close closes the underlying store and the cache
func (c *CachedStore) Close() error {
	storeErr := c.store.Close()
	cacheErr := c.cache.Close()
	if storeErr != nil {
		return storeErr
	}
	return cacheErr
}

// cacheKey builds a canonical "<model>:<filter JSON>" key. Go's JSON
// encoder sorts map keys, so identical filters share a key.
func cacheKey(schema model.Schema, filter Filter) (string, error) {
	if filter == nil {
		filter = Filter{}
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return schema.Name + ":" + string(data), nil
}
