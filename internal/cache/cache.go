// Package cache persists remote query results in a local SQLite file so
// the UI can redraw recently viewed datasets without a round trip to
// the logger. Deterministic transforms make cached results safe to
// replay.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultTTL is the default time-to-live for cached query results
const DefaultTTL = 15 * time.Minute

// FetchFunc represents a function that fetches data from the remote store
type FetchFunc[T any] func() (T, error)

// DB manages the SQLite database connection for the query cache
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// New creates a DB instance, opens the database connection, and
// initializes the cache table
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	c := &DB{db: db, path: dbPath}
	if err := c.createTable(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(err, closeErr)
	}
	return c, nil
}

func (c *DB) createTable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(QueryCacheSchema); err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

// Get retrieves a cached entry if it exists and is younger than ttl
func (c *DB) Get(key string, ttl time.Duration) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(
		"SELECT data, cached_at FROM query_cache WHERE cache_key = ?", key,
	).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Since(cachedAt) > ttl {
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a cache entry, replacing any previous value for the key
func (c *DB) Set(key, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO query_cache (cache_key, data, cached_at) VALUES (?, ?, ?)",
		key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// InvalidateModel deletes every cached query for the given model name.
// Returns the number of rows deleted.
func (c *DB) InvalidateModel(modelName string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec("DELETE FROM query_cache WHERE cache_key LIKE ?", modelName+":%")
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache invalidated", "model", modelName, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// Close closes the database connection
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}

// GetOrFetch retrieves data from the cache or fetches it with fetchFunc.
// The second return value reports whether the result came from cache.
// Cache failures never fail the fetch; they only cost the round trip.
func GetOrFetch[T any](c *DB, cacheKey string, ttl time.Duration, fetchFunc FetchFunc[T]) (T, bool, error) {
	var zero T

	if c != nil {
		cached, fromCache, err := c.Get(cacheKey, ttl)
		if err == nil && fromCache {
			var result T
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				slog.Debug("Cache hit", "key", cacheKey)
				return result, true, nil
			}
			slog.Warn("Failed to unmarshal cached data, will refetch", "key", cacheKey, "error", err)
		}
	}

	slog.Debug("Cache miss, fetching data", "key", cacheKey)
	data, err := fetchFunc()
	if err != nil {
		return zero, false, err
	}

	if c != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			slog.Warn("Failed to marshal data for caching", "key", cacheKey, "error", err)
		} else if err := c.Set(cacheKey, string(jsonData)); err != nil {
			slog.Warn("Failed to cache data", "key", cacheKey, "error", err)
		}
	}

	return data, false, nil
}
