package usecase

import (
	"context"
	"strings"

	"carpool-matching-service/internal/domain/ports/adapter"
	"carpool-matching-service/internal/infra/metrics"
)

const (
	geocodeDefaultLimit = 5
	geocodeMaxLimit     = 10
	geocodeMinQueryLen  = 2
)

// GeocodeUseCase fronts the external geocoder with a TTL cache so repeated
// autocomplete queries never hit the upstream twice within the cache window.
type GeocodeUseCase struct {
	geocoder adapter.GeocodeAdapter
	cache    adapter.GeocodeCache
}

func NewGeocodeUseCase(geocoder adapter.GeocodeAdapter, cache adapter.GeocodeCache) *GeocodeUseCase {
	return &GeocodeUseCase{geocoder: geocoder, cache: cache}
}

// Search resolves an address query. Queries shorter than two characters
// return an empty list without touching cache or upstream.
func (uc *GeocodeUseCase) Search(ctx context.Context, query string, limit int) ([]adapter.Place, error) {
	query = strings.TrimSpace(query)
	if len(query) < geocodeMinQueryLen {
		return []adapter.Place{}, nil
	}
	if limit <= 0 {
		limit = geocodeDefaultLimit
	}
	if limit > geocodeMaxLimit {
		limit = geocodeMaxLimit
	}

	key := strings.ToLower(query)
	if uc.cache != nil {
		if places, ok := uc.cache.Get(ctx, key, limit); ok {
			metrics.IncGeocodeCache(true)
			return places, nil
		}
		metrics.IncGeocodeCache(false)
	}

	places, err := uc.geocoder.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Put(ctx, key, limit, places)
	}
	return places, nil
}
