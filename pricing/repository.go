package pricing

import (
	"context"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// RuleUpdate enumerates the updatable pricing-rule fields explicitly. Nil
// means "leave unchanged".
type RuleUpdate struct {
	RuleName         *string
	BasePrice        *float64
	PricePerKm       *float64
	PricePerKg       *float64
	WeightIncludedKg *float64
	ExpressSurcharge *float64
	InsuranceFee     *float64
	MinPrice         *float64
	MaxPrice         *float64
	IsActive         *bool
}

// Repository defines DB operations for pricing rules. Implementations must
// guarantee that at most one rule is active at any time: creation or update
// with IsActive=true and ActivateRule deactivate all other rules within the
// same transaction.
type Repository interface {
	GetActiveRule(ctx context.Context) (*entity.PricingRule, error)
	GetRuleByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
	ListRules(ctx context.Context) ([]entity.PricingRule, error)
	CreateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error)
	UpdateRule(ctx context.Context, id uuid.UUID, update RuleUpdate) (*entity.PricingRule, error)
	// ActivateRule atomically deactivates every other rule and activates the
	// given one; a concurrent reader sees either the old or the new active
	// rule, never zero active rules.
	ActivateRule(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
}
