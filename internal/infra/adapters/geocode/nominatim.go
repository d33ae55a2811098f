package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"carpool-matching-service/internal/domain/ports/adapter"
)

// NominatimAdapter searches addresses against a Nominatim instance.
// Nominatim's usage policy requires a custom User-Agent.
type NominatimAdapter struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

var _ adapter.GeocodeAdapter = (*NominatimAdapter)(nil)

func NewNominatimAdapter(baseURL, userAgent string) *NominatimAdapter {
	return &NominatimAdapter{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *NominatimAdapter) Search(ctx context.Context, query string, limit int) ([]adapter.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode upstream status %d", resp.StatusCode)
	}

	var places []adapter.Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	return places, nil
}
