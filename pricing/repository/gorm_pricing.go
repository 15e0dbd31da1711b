package repository

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	pricingpkg "github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormPricingRepo struct{ db *gorm.DB }

func NewGormPricingRepo(db *gorm.DB) pricingpkg.Repository { return &GormPricingRepo{db: db} }

func (r *GormPricingRepo) GetActiveRule(ctx context.Context) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricingpkg.ErrNoActivePricingRule
		}
		return nil, err
	}
	return &rule, nil
}

func (r *GormPricingRepo) GetRuleByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pricingpkg.ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *GormPricingRepo) ListRules(ctx context.Context) ([]entity.PricingRule, error) {
	var rules []entity.PricingRule
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *GormPricingRepo) CreateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rule.IsActive {
			if err := tx.Model(&entity.PricingRule{}).
				Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(rule).Error
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *GormPricingRepo) UpdateRule(ctx context.Context, id uuid.UUID, update pricingpkg.RuleUpdate) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rule, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pricingpkg.ErrRuleNotFound
			}
			return err
		}

		fields := map[string]interface{}{}
		if update.RuleName != nil {
			fields["rule_name"] = *update.RuleName
		}
		if update.BasePrice != nil {
			fields["base_price"] = *update.BasePrice
		}
		if update.PricePerKm != nil {
			fields["price_per_km"] = *update.PricePerKm
		}
		if update.PricePerKg != nil {
			fields["price_per_kg"] = *update.PricePerKg
		}
		if update.WeightIncludedKg != nil {
			fields["weight_included_kg"] = *update.WeightIncludedKg
		}
		if update.ExpressSurcharge != nil {
			fields["express_surcharge"] = *update.ExpressSurcharge
		}
		if update.InsuranceFee != nil {
			fields["insurance_fee"] = *update.InsuranceFee
		}
		if update.MinPrice != nil {
			fields["min_price"] = *update.MinPrice
		}
		if update.MaxPrice != nil {
			fields["max_price"] = *update.MaxPrice
		}
		if update.IsActive != nil {
			fields["is_active"] = *update.IsActive
			if *update.IsActive {
				if err := tx.Model(&entity.PricingRule{}).
					Where("id != ? AND is_active = ?", id, true).
					Update("is_active", false).Error; err != nil {
					return err
				}
			}
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&rule).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&rule, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *GormPricingRepo) ActivateRule(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rule, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pricingpkg.ErrRuleNotFound
			}
			return err
		}
		if err := tx.Model(&entity.PricingRule{}).
			Where("id != ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&rule).Update("is_active", true).Error; err != nil {
			return err
		}
		rule.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
