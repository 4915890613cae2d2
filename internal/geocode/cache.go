package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores geocode results in Redis keyed by normalized address.
// Entries expire after ttl so a corrected upstream result eventually wins.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache builds a Cache on the provided Redis client.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached result for address and whether one was present.
func (c *Cache) Get(ctx context.Context, address string) (Result, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Result{}, false, nil
		}
		return Result{}, false, fmt.Errorf("geocode cache: get: %w", err)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return Result{}, false, nil
	}
	return res, true, nil
}

// Set stores the result for address with the cache TTL.
func (c *Cache) Set(ctx context.Context, address string, res Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("geocode cache: marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(address), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("geocode cache: set: %w", err)
	}
	return nil
}

// cacheKey normalizes the address so trivial variations share an entry.
func cacheKey(address string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	return "geocode:" + norm
}
