package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// LocationIQGeocoder is the primary, token-authenticated provider. Results are
// bounded to a single country for precision.
type LocationIQGeocoder struct {
	client      *http.Client
	apiKey      string
	baseURL     string
	countryCode string
}

func NewLocationIQGeocoder(apiKey, countryCode string) *LocationIQGeocoder {
	return &LocationIQGeocoder{
		client:      &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     "https://us1.locationiq.com/v1/search",
		countryCode: countryCode,
	}
}

type locationIQResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *LocationIQGeocoder) Geocode(ctx context.Context, address string) (Coordinate, error) {
	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	if g.countryCode != "" {
		q.Set("countrycodes", g.countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinate{}, fmt.Errorf("locationiq: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinate{}, fmt.Errorf("locationiq: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinate{}, fmt.Errorf("locationiq: status %d", resp.StatusCode)
	}

	var results []locationIQResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinate{}, fmt.Errorf("locationiq: decode response: %w", err)
	}
	if len(results) == 0 {
		return Coordinate{}, fmt.Errorf("locationiq: no results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("locationiq: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("locationiq: parse lon: %w", err)
	}

	coord := Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return Coordinate{}, fmt.Errorf("locationiq: coordinate out of bounds for %q", address)
	}
	return coord, nil
}
