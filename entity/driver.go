package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DriverStatus enumerates driver availability.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy" // holding an active assignment
	DriverOffline   DriverStatus = "offline"
)

// Driver stores driver-specific data collected at registration and afterwards.
// Status is only flipped to busy by the dispatch protocol and only released
// when the held parcel reaches a terminal status.
type Driver struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID            uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Status            DriverStatus   `json:"status" gorm:"type:text;index;not null;default:'offline'"`
	LicenseNumber     string         `json:"license_number,omitempty" gorm:"type:text"`
	VehicleType       string         `json:"vehicle_type,omitempty" gorm:"type:text"`
	VehiclePlate      string         `json:"vehicle_plate,omitempty" gorm:"type:text"`
	Latitude          *float64       `json:"latitude,omitempty" gorm:"type:double precision"`
	Longitude         *float64       `json:"longitude,omitempty" gorm:"type:double precision"`
	LocationUpdatedAt *time.Time     `json:"location_updated_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// AssignmentStatus enumerates the lifecycle of an assignment.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"   // created, delivery in progress
	AssignmentCompleted AssignmentStatus = "completed" // parcel reached a terminal status
)

// Assignment binds a parcel to exactly one driver. The unique index on
// ParcelID backstops the dispatch transaction against concurrent claims.
type Assignment struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ParcelID   uuid.UUID        `json:"parcel_id" gorm:"type:uuid;uniqueIndex;not null"`
	DriverID   uuid.UUID        `json:"driver_id" gorm:"type:uuid;index;not null"`
	AssignedBy uuid.UUID        `json:"assigned_by" gorm:"type:uuid;not null"`
	Status     AssignmentStatus `json:"status" gorm:"type:text;index;not null;default:'pending'"`
	AssignedAt time.Time        `json:"assigned_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
