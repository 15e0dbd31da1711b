package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/geo"
	pricingpkg "github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/google/uuid"
)

type pricingService struct {
	repo      pricingpkg.Repository
	geocoder  geo.Geocoder
	estimator geo.RouteEstimator
}

// NewPricingService constructs a pricing Service backed by the rule repository
// and the geodata providers.
func NewPricingService(repo pricingpkg.Repository, geocoder geo.Geocoder, estimator geo.RouteEstimator) pricingpkg.Service {
	return &pricingService{repo: repo, geocoder: geocoder, estimator: estimator}
}

func (s *pricingService) Quote(ctx context.Context, req pricingpkg.QuoteRequest) (*pricingpkg.Quote, error) {
	rule, err := s.repo.GetActiveRule(ctx)
	if err != nil {
		return nil, err
	}

	pickup, err := s.geocoder.Geocode(ctx, req.PickupAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve pickup address: %w", err)
	}
	delivery, err := s.geocoder.Geocode(ctx, req.DeliveryAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve delivery address: %w", err)
	}

	dist := s.estimator.Estimate(ctx, pickup, delivery)
	quote := Compute(rule, dist.DistanceKm, req.WeightKg, req.ServiceType, req.Insurance)
	quote.DurationMinutes = dist.DurationMinutes
	quote.EstimatedDeliveryDate = pricingpkg.EstimateDeliveryDate(req.ServiceType, dist.DistanceKm, dist.DurationMinutes, time.Now())
	return quote, nil
}

// Compute applies the active rule to the resolved distance. Weight at or under
// the included allowance incurs no weight charge; the final price is clamped
// to [MinPrice, MaxPrice] and rounded to 2 decimals.
func Compute(rule *entity.PricingRule, distanceKm, weightKg float64, serviceType entity.ServiceType, insurance bool) *pricingpkg.Quote {
	breakdown := pricingpkg.Breakdown{
		Base:     rule.BasePrice,
		Distance: distanceKm * rule.PricePerKm,
	}
	if weightKg > rule.WeightIncludedKg {
		breakdown.Weight = (weightKg - rule.WeightIncludedKg) * rule.PricePerKg
	}
	if serviceType == entity.ServiceExpress {
		breakdown.Express = rule.ExpressSurcharge
	}
	if insurance {
		breakdown.Insurance = rule.InsuranceFee
	}

	price := breakdown.Base + breakdown.Distance + breakdown.Weight + breakdown.Express + breakdown.Insurance
	if price < rule.MinPrice {
		price = rule.MinPrice
	}
	if rule.MaxPrice != nil && price > *rule.MaxPrice {
		price = *rule.MaxPrice
	}

	return &pricingpkg.Quote{
		Price:      round2(price),
		DistanceKm: distanceKm,
		Breakdown:  breakdown,
	}
}

func (s *pricingService) GetActiveRule(ctx context.Context) (*entity.PricingRule, error) {
	return s.repo.GetActiveRule(ctx)
}

func (s *pricingService) ListRules(ctx context.Context) ([]entity.PricingRule, error) {
	return s.repo.ListRules(ctx)
}

func (s *pricingService) CreateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	return s.repo.CreateRule(ctx, rule)
}

func (s *pricingService) UpdateRule(ctx context.Context, id uuid.UUID, update pricingpkg.RuleUpdate) (*entity.PricingRule, error) {
	return s.repo.UpdateRule(ctx, id, update)
}

func (s *pricingService) ActivateRule(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	return s.repo.ActivateRule(ctx, id)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
