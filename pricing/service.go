package pricing

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// ErrNoActivePricingRule is returned when pricing is requested while no rule
// is active. There is no fallback for this one.
var ErrNoActivePricingRule = errors.New("no active pricing rule")

// ErrRuleNotFound is returned for unknown rule ids.
var ErrRuleNotFound = errors.New("pricing rule not found")

// QuoteRequest carries the inputs for a price quote.
type QuoteRequest struct {
	PickupAddress   string
	DeliveryAddress string
	WeightKg        float64
	ServiceType     entity.ServiceType
	Insurance       bool
}

// Breakdown itemizes a quote for display and audit. After min/max clamping
// the items may not sum to the final price; the breakdown is diagnostic, not
// authoritative.
type Breakdown struct {
	Base      float64 `json:"base"`
	Distance  float64 `json:"distance"`
	Weight    float64 `json:"weight"`
	Express   float64 `json:"express"`
	Insurance float64 `json:"insurance"`
}

// Quote is the priced result for a parcel request.
type Quote struct {
	Price                 float64   `json:"price"`
	DistanceKm            float64   `json:"distance_km"`
	DurationMinutes       *float64  `json:"duration_minutes,omitempty"`
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
	Breakdown             Breakdown `json:"breakdown"`
}

// Service quotes prices and manages pricing rules.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	GetActiveRule(ctx context.Context) (*entity.PricingRule, error)
	ListRules(ctx context.Context) ([]entity.PricingRule, error)
	CreateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error)
	UpdateRule(ctx context.Context, id uuid.UUID, update RuleUpdate) (*entity.PricingRule, error)
	ActivateRule(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
}

const workingMinutesPerDay = 8 * 60

// EstimateDeliveryDate computes the estimated delivery date from the service
// tier and the distance estimate. Express defaults to next day; standard to a
// two-day minimum with one day per 50 km when no road duration is known.
func EstimateDeliveryDate(serviceType entity.ServiceType, distanceKm float64, durationMinutes *float64, from time.Time) time.Time {
	days := 1
	switch {
	case serviceType == entity.ServiceExpress && durationMinutes != nil:
		days = max(1, int(math.Ceil(*durationMinutes/workingMinutesPerDay)))
	case serviceType == entity.ServiceExpress:
		days = 1
	case durationMinutes != nil:
		days = max(2, int(math.Ceil(*durationMinutes/workingMinutesPerDay)))
	default:
		days = max(2, int(math.Ceil(distanceKm/50)))
	}

	d := from.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
