package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus enumerates the settlement lifecycle. pending -> completed is
// the only success path; refunded is reachable only from completed.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment records one settlement attempt for a parcel. A parcel may have
// several attempts but at most one ever completes.
type Payment struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ParcelID      uuid.UUID     `json:"parcel_id" gorm:"type:uuid;index;not null"`
	UserID        uuid.UUID     `json:"user_id" gorm:"type:uuid;index;not null"`
	Amount        float64       `json:"amount" gorm:"type:numeric(12,2);not null"`
	PaymentMethod string        `json:"payment_method" gorm:"type:text;not null"`
	Status        PaymentStatus `json:"payment_status" gorm:"column:payment_status;type:text;index;not null;default:'pending'"`
	TransactionID string        `json:"transaction_id,omitempty" gorm:"type:text"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
