package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/geo"
	pricingpkg "github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/google/uuid"
)

func testRule() *entity.PricingRule {
	return &entity.PricingRule{
		ID:               uuid.New(),
		RuleName:         "default",
		BasePrice:        500,
		PricePerKm:       50,
		PricePerKg:       100,
		WeightIncludedKg: 5,
		ExpressSurcharge: 200,
		InsuranceFee:     150,
		MinPrice:         300,
		IsActive:         true,
	}
}

func TestComputeScenarioStandard(t *testing.T) {
	// weight 3kg <= 5kg included, 12.0km, base 500 + distance 600 = 1100.
	q := Compute(testRule(), 12.0, 3, entity.ServiceStandard, false)
	if q.Price != 1100 {
		t.Fatalf("price = %v, want 1100", q.Price)
	}
	if q.Breakdown.Weight != 0 {
		t.Fatalf("weight charge = %v, want 0", q.Breakdown.Weight)
	}
	if q.Breakdown.Distance != 600 {
		t.Fatalf("distance charge = %v, want 600", q.Breakdown.Distance)
	}
}

func TestComputeWeightBoundary(t *testing.T) {
	rule := testRule()

	// Exactly at the included allowance: no charge.
	q := Compute(rule, 1.0, 5.0, entity.ServiceStandard, false)
	if q.Breakdown.Weight != 0 {
		t.Fatalf("weight charge at boundary = %v, want 0", q.Breakdown.Weight)
	}

	// Just over: only the excess is charged.
	q = Compute(rule, 1.0, 5.5, entity.ServiceStandard, false)
	if q.Breakdown.Weight != 50 {
		t.Fatalf("weight charge = %v, want 50", q.Breakdown.Weight)
	}
}

func TestComputePriceFloor(t *testing.T) {
	rule := testRule()
	rule.BasePrice = 10
	rule.MinPrice = 400

	q := Compute(rule, 1.0, 1, entity.ServiceStandard, false)
	if q.Price != 400 {
		t.Fatalf("price = %v, want floor 400", q.Price)
	}
	// Breakdown stays diagnostic: it reflects the raw charges, not the floor.
	if q.Breakdown.Base != 10 || q.Breakdown.Distance != 50 {
		t.Fatalf("breakdown = %+v, want raw charges", q.Breakdown)
	}
}

func TestComputeMaxPriceClamp(t *testing.T) {
	rule := testRule()
	maxPrice := 800.0
	rule.MaxPrice = &maxPrice

	q := Compute(rule, 100, 20, entity.ServiceExpress, true)
	if q.Price != 800 {
		t.Fatalf("price = %v, want clamp 800", q.Price)
	}
}

func TestComputeSurcharges(t *testing.T) {
	q := Compute(testRule(), 2.0, 1, entity.ServiceExpress, true)
	if q.Breakdown.Express != 200 {
		t.Fatalf("express = %v, want 200", q.Breakdown.Express)
	}
	if q.Breakdown.Insurance != 150 {
		t.Fatalf("insurance = %v, want 150", q.Breakdown.Insurance)
	}
	// 500 + 100 + 200 + 150
	if q.Price != 950 {
		t.Fatalf("price = %v, want 950", q.Price)
	}
}

func TestEstimateDeliveryDate(t *testing.T) {
	from := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	dur16h := 16 * 60.0

	cases := []struct {
		name     string
		service  entity.ServiceType
		distance float64
		duration *float64
		wantDays int
	}{
		{"express default", entity.ServiceExpress, 30, nil, 1},
		{"express long route", entity.ServiceExpress, 900, &dur16h, 2},
		{"standard minimum", entity.ServiceStandard, 30, nil, 2},
		{"standard by distance", entity.ServiceStandard, 240, nil, 5},
		{"standard by duration", entity.ServiceStandard, 900, &dur16h, 2},
	}

	for _, tc := range cases {
		got := pricingpkg.EstimateDeliveryDate(tc.service, tc.distance, tc.duration, from)
		want := time.Date(2026, 3, 2+tc.wantDays, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("%s: date = %v, want %v", tc.name, got, want)
		}
	}
}

type fakeRuleRepo struct {
	active *entity.PricingRule
}

func (f *fakeRuleRepo) GetActiveRule(ctx context.Context) (*entity.PricingRule, error) {
	if f.active == nil {
		return nil, pricingpkg.ErrNoActivePricingRule
	}
	return f.active, nil
}
func (f *fakeRuleRepo) GetRuleByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	return nil, pricingpkg.ErrRuleNotFound
}
func (f *fakeRuleRepo) ListRules(ctx context.Context) ([]entity.PricingRule, error) {
	return nil, nil
}
func (f *fakeRuleRepo) CreateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	return rule, nil
}
func (f *fakeRuleRepo) UpdateRule(ctx context.Context, id uuid.UUID, update pricingpkg.RuleUpdate) (*entity.PricingRule, error) {
	return nil, pricingpkg.ErrRuleNotFound
}
func (f *fakeRuleRepo) ActivateRule(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	return nil, pricingpkg.ErrRuleNotFound
}

// memRuleRepo mirrors the store's activation semantics: creating, updating,
// or activating a rule as active deactivates every other rule in the same
// critical section.
type memRuleRepo struct {
	mu    sync.Mutex
	rules map[uuid.UUID]*entity.PricingRule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: map[uuid.UUID]*entity.PricingRule{}}
}

func (r *memRuleRepo) deactivateOthers(keep uuid.UUID) {
	for id, rule := range r.rules {
		if id != keep {
			rule.IsActive = false
		}
	}
}

func (r *memRuleRepo) GetActiveRule(ctx context.Context) (*entity.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.IsActive {
			return rule, nil
		}
	}
	return nil, pricingpkg.ErrNoActivePricingRule
}

func (r *memRuleRepo) GetRuleByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, pricingpkg.ErrRuleNotFound
	}
	return rule, nil
}

func (r *memRuleRepo) ListRules(ctx context.Context) ([]entity.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []entity.PricingRule
	for _, rule := range r.rules {
		list = append(list, *rule)
	}
	return list, nil
}

func (r *memRuleRepo) CreateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if rule.IsActive {
		r.deactivateOthers(rule.ID)
	}
	r.rules[rule.ID] = rule
	return rule, nil
}

func (r *memRuleRepo) UpdateRule(ctx context.Context, id uuid.UUID, update pricingpkg.RuleUpdate) (*entity.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, pricingpkg.ErrRuleNotFound
	}
	if update.BasePrice != nil {
		rule.BasePrice = *update.BasePrice
	}
	if update.IsActive != nil {
		rule.IsActive = *update.IsActive
		if rule.IsActive {
			r.deactivateOthers(id)
		}
	}
	return rule, nil
}

func (r *memRuleRepo) ActivateRule(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, pricingpkg.ErrRuleNotFound
	}
	r.deactivateOthers(id)
	rule.IsActive = true
	return rule, nil
}

func activeRules(t *testing.T, svc pricingpkg.Service) []entity.PricingRule {
	t.Helper()
	all, err := svc.ListRules(context.Background())
	if err != nil {
		t.Fatalf("list rules failed: %v", err)
	}
	var active []entity.PricingRule
	for _, rule := range all {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active
}

func TestActivateRuleSingleActive(t *testing.T) {
	repo := newMemRuleRepo()
	svc := NewPricingService(repo, fixedGeocoder{}, fixedEstimator{})
	ctx := context.Background()

	seed := func(name string, active bool) uuid.UUID {
		rule := testRule()
		rule.ID = uuid.New()
		rule.RuleName = name
		rule.IsActive = active
		if _, err := svc.CreateRule(ctx, rule); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
		return rule.ID
	}

	seed("launch", true)
	seed("dormant", false)
	target := seed("rainy-season", false)

	if _, err := svc.ActivateRule(ctx, uuid.New()); err != pricingpkg.ErrRuleNotFound {
		t.Fatalf("unknown rule err = %v, want ErrRuleNotFound", err)
	}

	activated, err := svc.ActivateRule(ctx, target)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !activated.IsActive {
		t.Fatal("activated rule not marked active")
	}

	active := activeRules(t, svc)
	if len(active) != 1 || active[0].ID != target {
		t.Fatalf("active rules = %+v, want exactly the activated one", active)
	}
	current, err := svc.GetActiveRule(ctx)
	if err != nil {
		t.Fatalf("get active rule failed: %v", err)
	}
	if current.ID != target {
		t.Fatalf("active rule = %s, want %s", current.ID, target)
	}
}

func TestCreateAndUpdateKeepSingleActive(t *testing.T) {
	repo := newMemRuleRepo()
	svc := NewPricingService(repo, fixedGeocoder{}, fixedEstimator{})
	ctx := context.Background()

	first := testRule()
	if _, err := svc.CreateRule(ctx, first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Creating another active rule displaces the first.
	second := testRule()
	second.ID = uuid.New()
	second.RuleName = "promo"
	if _, err := svc.CreateRule(ctx, second); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if active := activeRules(t, svc); len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("active rules after create = %+v, want only %s", active, second.ID)
	}

	// Updating a dormant rule to active displaces the current one.
	on := true
	if _, err := svc.UpdateRule(ctx, first.ID, pricingpkg.RuleUpdate{IsActive: &on}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if active := activeRules(t, svc); len(active) != 1 || active[0].ID != first.ID {
		t.Fatalf("active rules after update = %+v, want only %s", active, first.ID)
	}
}

type fixedGeocoder struct{ coord geo.Coordinate }

func (f fixedGeocoder) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	return f.coord, nil
}

type fixedEstimator struct{ result geo.DistanceResult }

func (f fixedEstimator) Estimate(ctx context.Context, pickup, delivery geo.Coordinate) geo.DistanceResult {
	return f.result
}

func TestQuoteNoActiveRule(t *testing.T) {
	svc := NewPricingService(&fakeRuleRepo{}, fixedGeocoder{}, fixedEstimator{})
	_, err := svc.Quote(context.Background(), pricingpkg.QuoteRequest{
		PickupAddress:   "a",
		DeliveryAddress: "b",
		WeightKg:        1,
		ServiceType:     entity.ServiceStandard,
	})
	if err != pricingpkg.ErrNoActivePricingRule {
		t.Fatalf("err = %v, want ErrNoActivePricingRule", err)
	}
}

func TestQuoteEndToEnd(t *testing.T) {
	svc := NewPricingService(
		&fakeRuleRepo{active: testRule()},
		fixedGeocoder{coord: geo.Coordinate{Latitude: 9, Longitude: 38}},
		fixedEstimator{result: geo.DistanceResult{DistanceKm: 12.0}},
	)

	q, err := svc.Quote(context.Background(), pricingpkg.QuoteRequest{
		PickupAddress:   "Bole Road",
		DeliveryAddress: "Piassa",
		WeightKg:        3,
		ServiceType:     entity.ServiceStandard,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 1100 {
		t.Fatalf("price = %v, want 1100", q.Price)
	}
	if q.DistanceKm != 12.0 {
		t.Fatalf("distance = %v, want 12.0", q.DistanceKm)
	}
	if q.EstimatedDeliveryDate.IsZero() {
		t.Fatal("estimated delivery date not set")
	}
}
