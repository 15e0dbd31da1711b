package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the auth profile shared by customers, drivers and admins.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email        string         `json:"email" gorm:"type:text;uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"type:text;not null"`
	FullName     string         `json:"full_name" gorm:"type:text;not null"`
	Phone        string         `json:"phone,omitempty" gorm:"type:text;index"`
	Role         string         `json:"role" gorm:"type:text;index;not null"` // customer | driver | admin
	PushToken    string         `json:"-" gorm:"type:text"`                   // Expo push token, if registered
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Notification is an append-only record of a user-facing event.
type Notification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;index;not null"`
	ParcelID  *uuid.UUID `json:"parcel_id,omitempty" gorm:"type:uuid;index;default:null"`
	Type      string     `json:"type" gorm:"type:text;not null"` // e.g. status_update, assignment, payment
	Title     string     `json:"title" gorm:"type:text;not null"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	Read      bool       `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time  `json:"created_at"`
}
