package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PricingRule is an admin-configured tariff. At most one rule is active at a
// time; activation deactivates all others in the same transaction.
type PricingRule struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RuleName         string         `json:"rule_name" gorm:"type:text;not null"`
	BasePrice        float64        `json:"base_price" gorm:"type:numeric(12,2);not null"`
	PricePerKm       float64        `json:"price_per_km" gorm:"type:numeric(12,2);not null"`
	PricePerKg       float64        `json:"price_per_kg" gorm:"type:numeric(12,2);not null"`
	WeightIncludedKg float64        `json:"weight_included_kg" gorm:"type:double precision;not null;default:5"`
	ExpressSurcharge float64        `json:"express_surcharge" gorm:"type:numeric(12,2);not null"`
	InsuranceFee     float64        `json:"insurance_fee" gorm:"type:numeric(12,2);not null"`
	MinPrice         float64        `json:"min_price" gorm:"type:numeric(12,2);not null"`
	MaxPrice         *float64       `json:"max_price,omitempty" gorm:"type:numeric(12,2);default:null"`
	IsActive         bool           `json:"is_active" gorm:"index;not null;default:false"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
