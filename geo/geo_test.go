package geo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubGeocoder struct {
	coord Coordinate
	err   error
	calls int
}

func (s *stubGeocoder) Geocode(ctx context.Context, address string) (Coordinate, error) {
	s.calls++
	if s.err != nil {
		return Coordinate{}, s.err
	}
	return s.coord, nil
}

func TestResolverFallsBackToNextProvider(t *testing.T) {
	primary := &stubGeocoder{err: errors.New("token rejected")}
	fallback := &stubGeocoder{coord: Coordinate{Latitude: 9.03, Longitude: 38.74}}

	r := NewResolver(primary, fallback)
	coord, err := r.Geocode(context.Background(), "Bole Road, Addis Ababa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Latitude != 9.03 || coord.Longitude != 38.74 {
		t.Fatalf("coord = %+v, want fallback result", coord)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestResolverAllProvidersFail(t *testing.T) {
	r := NewResolver(
		&stubGeocoder{err: errors.New("down")},
		&stubGeocoder{err: errors.New("also down")},
	)
	_, err := r.Geocode(context.Background(), "nowhere")
	if !errors.Is(err, ErrGeocodeUnavailable) {
		t.Fatalf("err = %v, want ErrGeocodeUnavailable", err)
	}
}

func TestOSRMEstimatorUsesRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":12040,"duration":1080}]}`))
	}))
	defer srv.Close()

	e := NewOSRMEstimator(srv.URL)
	res := e.Estimate(context.Background(), Coordinate{Latitude: 9.0, Longitude: 38.7}, Coordinate{Latitude: 9.1, Longitude: 38.8})

	if res.DistanceKm != 12.0 {
		t.Fatalf("distance = %v, want 12.0", res.DistanceKm)
	}
	if res.DurationMinutes == nil {
		t.Fatal("duration is nil, want 18 minutes")
	}
	if *res.DurationMinutes != 18 {
		t.Fatalf("duration = %v, want 18", *res.DurationMinutes)
	}
}

func TestOSRMEstimatorFallsBackToStraightLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewOSRMEstimator(srv.URL)
	pickup := Coordinate{Latitude: 9.0, Longitude: 38.7}
	delivery := Coordinate{Latitude: 9.1, Longitude: 38.8}
	res := e.Estimate(context.Background(), pickup, delivery)

	if res.DurationMinutes != nil {
		t.Fatalf("duration = %v, want absent on fallback", *res.DurationMinutes)
	}
	if res.DistanceKm <= 0 || math.IsNaN(res.DistanceKm) || math.IsInf(res.DistanceKm, 0) {
		t.Fatalf("distance = %v, want finite positive", res.DistanceKm)
	}
	want := round1(HaversineKm(pickup, delivery))
	if res.DistanceKm != want {
		t.Fatalf("distance = %v, want haversine %v", res.DistanceKm, want)
	}
}

func TestHaversineKmKnownDistance(t *testing.T) {
	// One degree of latitude is ~111.2 km.
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 1, Longitude: 0}
	got := HaversineKm(a, b)
	if got < 110 || got > 112 {
		t.Fatalf("haversine = %v, want ~111.2", got)
	}
}

func TestNominatimWaitEnforcesSpacing(t *testing.T) {
	g := NewNominatimGeocoder()
	g.interval = 50 * time.Millisecond

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("three calls took %v, want >= 100ms spacing", elapsed)
	}
}
