package adapter

import "context"

// Place is one address-search hit as returned by the upstream geocoder.
type Place struct {
	DisplayName string  `json:"display_name"`
	Latitude    string  `json:"lat"`
	Longitude   string  `json:"lon"`
	Type        string  `json:"type,omitempty"`
	Importance  float64 `json:"importance,omitempty"`
}

// GeocodeAdapter resolves free-text address queries against an external
// geocoding provider.
type GeocodeAdapter interface {
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}

// GeocodeCache is a TTL cache over geocode responses keyed by query+limit.
// A cache miss returns ok=false, never an error the caller must handle
// differently from a miss.
type GeocodeCache interface {
	Get(ctx context.Context, query string, limit int) ([]Place, bool)
	Put(ctx context.Context, query string, limit int, places []Place)
}
