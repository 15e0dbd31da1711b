package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// NominatimGeocoder is the free fallback provider. Nominatim's usage policy
// caps clients at one request per second, so consecutive calls are serialized
// with an enforced minimum spacing.
type NominatimGeocoder struct {
	client   *http.Client
	baseURL  string
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  "https://nominatim.openstreetmap.org/search",
		interval: time.Second,
	}
}

// wait blocks until the minimum inter-request spacing has elapsed, honoring
// context cancellation.
func (g *NominatimGeocoder) wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if remaining := g.interval - time.Since(g.last); remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	g.last = time.Now()
	return nil
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (Coordinate, error) {
	if err := g.wait(ctx); err != nil {
		return Coordinate{}, fmt.Errorf("nominatim: %w", err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinate{}, fmt.Errorf("nominatim: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "backend-logistics/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinate{}, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinate{}, fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinate{}, fmt.Errorf("nominatim: decode response: %w", err)
	}
	if len(results) == 0 {
		return Coordinate{}, fmt.Errorf("nominatim: no results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("nominatim: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("nominatim: parse lon: %w", err)
	}

	coord := Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return Coordinate{}, fmt.Errorf("nominatim: coordinate out of bounds for %q", address)
	}
	return coord, nil
}
