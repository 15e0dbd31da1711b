package parcel

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// ErrParcelNotFound is returned for unknown parcel ids or tracking ids.
var ErrParcelNotFound = errors.New("parcel not found")

// ErrInvalidTransition is returned when a status update violates the parcel
// lifecycle graph, including any attempt to leave a terminal status.
var ErrInvalidTransition = errors.New("invalid status transition")

// StatusUpdate carries the inputs of one lifecycle transition.
type StatusUpdate struct {
	Status    entity.ParcelStatus
	Location  string
	UpdatedBy uuid.UUID
	Notes     string
}

// ListFilter narrows admin parcel listings.
type ListFilter struct {
	Status *entity.ParcelStatus
	Limit  int
	Offset int
}

// Repository defines DB operations for parcels and their audit trail.
type Repository interface {
	// CreateParcel persists the parcel together with its initial history row
	// in one transaction.
	CreateParcel(ctx context.Context, p *entity.Parcel, initial *entity.StatusHistory) (*entity.Parcel, error)
	GetParcelByID(ctx context.Context, id uuid.UUID) (*entity.Parcel, error)
	GetParcelByTrackingID(ctx context.Context, trackingID string) (*entity.Parcel, error)
	TrackingIDExists(ctx context.Context, trackingID string) (bool, error)

	ListParcelsBySender(ctx context.Context, senderID uuid.UUID) ([]entity.Parcel, error)
	ListParcelsForDriver(ctx context.Context, driverID uuid.UUID) ([]entity.Parcel, error)
	ListParcels(ctx context.Context, filter ListFilter) ([]entity.Parcel, int64, error)
	// ListUnassignedParcels returns created parcels with no assignment row,
	// i.e. the pool drivers may claim from.
	ListUnassignedParcels(ctx context.Context) ([]entity.Parcel, error)

	ListStatusHistory(ctx context.Context, parcelID uuid.UUID) ([]entity.StatusHistory, error)
	GetActiveAssignment(ctx context.Context, parcelID uuid.UUID) (*entity.Assignment, error)

	// TransitionStatus atomically validates the transition against the
	// lifecycle graph, updates the parcel (stamping actual_delivery_date on
	// delivered), appends the history row, and on a terminal status marks the
	// active assignment completed and returns its driver to available. No
	// partial mutation survives a failed validation.
	TransitionStatus(ctx context.Context, parcelID uuid.UUID, update StatusUpdate) (*entity.Parcel, error)
}
