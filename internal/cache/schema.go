package cache

// QueryCacheSchema defines the single table holding cached remote query
// results. Keys are "<model>:<canonical filter JSON>" so a whole model
// can be invalidated with one prefix match.
const QueryCacheSchema = `
CREATE TABLE IF NOT EXISTS query_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_query_cached_at ON query_cache(cached_at);
`
