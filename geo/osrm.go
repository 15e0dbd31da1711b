package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(a, b Coordinate) float64 {
	toRad := func(d float64) float64 { return d * (math.Pi / 180.0) }
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1.0-h))
	return earthRadiusKm * c
}

// OSRMEstimator queries an OSRM instance for driving distance and duration.
// When routing is unavailable it degrades to straight-line distance with an
// absent duration rather than failing; routing quality feeds pricing and ETA,
// so availability wins over fidelity here.
type OSRMEstimator struct {
	client  *http.Client
	baseURL string
}

func NewOSRMEstimator(baseURL string) *OSRMEstimator {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMEstimator{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type osrmResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
	Code string `json:"code"`
	Msg  string `json:"message"`
}

func (e *OSRMEstimator) Estimate(ctx context.Context, pickup, delivery Coordinate) DistanceResult {
	distKm, durMin, err := e.route(ctx, pickup, delivery)
	if err != nil {
		log.Printf("osrm: routing failed, falling back to straight-line distance: %v", err)
		return DistanceResult{DistanceKm: round1(HaversineKm(pickup, delivery))}
	}
	return DistanceResult{DistanceKm: round1(distKm), DurationMinutes: &durMin}
}

func (e *OSRMEstimator) route(ctx context.Context, pickup, delivery Coordinate) (float64, float64, error) {
	// OSRM takes lng,lat pairs.
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false&alternatives=false&steps=false",
		e.baseURL, pickup.Longitude, pickup.Latitude, delivery.Longitude, delivery.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("routing status %d", resp.StatusCode)
	}

	var rr osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return 0, 0, fmt.Errorf("decode response: %w", err)
	}
	if rr.Code != "Ok" || len(rr.Routes) == 0 {
		return 0, 0, fmt.Errorf("routing error: %s", rr.Msg)
	}
	return rr.Routes[0].Distance / 1000.0, rr.Routes[0].Duration / 60.0, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
