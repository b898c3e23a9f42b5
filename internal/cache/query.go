package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alterwhite/alterwhite-api/internal/model"
)

const (
	// queryKeyPrefix is the Redis key prefix for cached query documents.
	queryKeyPrefix = "query:"

	// DefaultQueryTTL is the TTL for cached query details. Short on purpose:
	// the counter mutates often and a stale read costs only a few seconds.
	DefaultQueryTTL = 30 * time.Second
)

// ErrCacheMiss indicates the requested entry is not in cache.
var ErrCacheMiss = errors.New("cache miss")

// GetQuery retrieves a cached query detail by id.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetQuery(ctx context.Context, id string) (*model.Query, error) {
	data, err := c.client.Get(ctx, queryKeyPrefix+id).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var query model.Query
	if err := json.Unmarshal(data, &query); err != nil {
		// Corrupted entry - treat as miss
		return nil, ErrCacheMiss
	}
	return &query, nil
}

// SetQuery caches a query detail document.
func (c *Cache) SetQuery(ctx context.Context, query *model.Query) error {
	data, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}
	return c.client.Set(ctx, queryKeyPrefix+query.ID.Hex(), data, DefaultQueryTTL).Err()
}

// DeleteQuery evicts a cached query. Called on every counter adjustment,
// metadata update and delete so reads never serve a mutated document longer
// than the TTL window.
func (c *Cache) DeleteQuery(ctx context.Context, id string) error {
	return c.client.Del(ctx, queryKeyPrefix+id).Err()
}
