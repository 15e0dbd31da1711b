package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceType selects the delivery speed tier for a parcel.
type ServiceType string

const (
	ServiceStandard ServiceType = "standard"
	ServiceExpress  ServiceType = "express"
)

// ParcelStatus enumerates the physical handling lifecycle of a parcel.
type ParcelStatus string

const (
	ParcelCreated        ParcelStatus = "created"          // accepted, awaiting a driver
	ParcelPickedUp       ParcelStatus = "picked_up"        // driver claimed / assigned
	ParcelInTransit      ParcelStatus = "in_transit"       // moving between facilities
	ParcelOutForDelivery ParcelStatus = "out_for_delivery" // on the last leg
	ParcelDelivered      ParcelStatus = "delivered"        // terminal success
	ParcelFailed         ParcelStatus = "failed"           // terminal failure
	ParcelReturned       ParcelStatus = "returned"         // terminal, sent back to sender
)

// parcelTransitions encodes the legal status graph. Terminal states have no
// outgoing edges.
var parcelTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelCreated:        {ParcelPickedUp},
	ParcelPickedUp:       {ParcelInTransit, ParcelFailed, ParcelReturned},
	ParcelInTransit:      {ParcelOutForDelivery, ParcelFailed, ParcelReturned},
	ParcelOutForDelivery: {ParcelDelivered, ParcelFailed, ParcelReturned},
}

// CanTransition reports whether a parcel may move from one status to another.
func CanTransition(from, to ParcelStatus) bool {
	for _, next := range parcelTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s ParcelStatus) IsTerminal() bool {
	return s == ParcelDelivered || s == ParcelFailed || s == ParcelReturned
}

// Parcel captures a delivery request by a customer. Parcels are never hard
// deleted; they remain as the historical record.
type Parcel struct {
	ID                    uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TrackingID            string         `json:"tracking_id" gorm:"type:text;uniqueIndex;not null"`
	SenderID              uuid.UUID      `json:"sender_id" gorm:"type:uuid;index;not null"`
	RecipientName         string         `json:"recipient_name" gorm:"type:text;not null"`
	RecipientPhone        string         `json:"recipient_phone" gorm:"type:text;not null"`
	PickupAddress         string         `json:"pickup_address" gorm:"type:text;not null"`
	DeliveryAddress       string         `json:"delivery_address" gorm:"type:text;not null"`
	ParcelType            string         `json:"parcel_type,omitempty" gorm:"type:text"`
	Description           string         `json:"description,omitempty" gorm:"type:text"`
	WeightKg              float64        `json:"weight_kg" gorm:"type:double precision;not null"`
	ServiceType           ServiceType    `json:"service_type" gorm:"type:text;index;not null"`
	Insurance             bool           `json:"insurance" gorm:"default:false"`
	Status                ParcelStatus   `json:"status" gorm:"type:text;index;not null;default:'created'"`
	Price                 float64        `json:"price" gorm:"type:numeric(12,2);not null"`
	DistanceKm            float64        `json:"distance_km" gorm:"type:double precision;not null"`
	EstimatedDeliveryDate time.Time      `json:"estimated_delivery_date" gorm:"type:date"`
	ActualDeliveryDate    *time.Time     `json:"actual_delivery_date,omitempty" gorm:"type:date;default:null"`
	CurrentLocation       string         `json:"current_location,omitempty" gorm:"type:text"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`
}

// StatusHistory is the append-only audit log of parcel transitions. Rows are
// never updated or deleted.
type StatusHistory struct {
	ID        uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ParcelID  uuid.UUID    `json:"parcel_id" gorm:"type:uuid;index;not null"`
	Status    ParcelStatus `json:"status" gorm:"type:text;not null"`
	Location  string       `json:"location,omitempty" gorm:"type:text"`
	UpdatedBy uuid.UUID    `json:"updated_by" gorm:"type:uuid;not null"`
	Notes     string       `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at"`
}
