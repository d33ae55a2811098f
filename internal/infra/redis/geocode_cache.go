package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carpool-matching-service/internal/domain/ports/adapter"
)

// GeocodeCache caches geocoder responses in redis under a TTL so repeated
// autocomplete queries do not hit the upstream provider. Cache errors are
// treated as misses; the cache must never fail a search.
type GeocodeCache struct {
	client RedisClient
	ttl    time.Duration
}

var _ adapter.GeocodeCache = (*GeocodeCache)(nil)

func NewGeocodeCache(client RedisClient, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{client: client, ttl: ttl}
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("geocode:%s|%d", query, limit)
}

func (c *GeocodeCache) Get(ctx context.Context, query string, limit int) ([]adapter.Place, bool) {
	data, err := c.client.Get(ctx, cacheKey(query, limit))
	if err != nil {
		return nil, false
	}
	var places []adapter.Place
	if err := json.Unmarshal([]byte(data), &places); err != nil {
		return nil, false
	}
	return places, true
}

func (c *GeocodeCache) Put(ctx context.Context, query string, limit int, places []adapter.Place) {
	data, err := json.Marshal(places)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(query, limit), data, c.ttl)
}
