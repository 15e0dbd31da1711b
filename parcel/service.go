package parcel

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/google/uuid"
)

// ErrNotAssigned is returned when a driver tries to move a parcel held by
// someone else (or by nobody).
var ErrNotAssigned = errors.New("parcel not assigned to this driver")

// CreateParcelRequest carries validated inputs for parcel creation.
type CreateParcelRequest struct {
	SenderID        uuid.UUID
	RecipientName   string
	RecipientPhone  string
	PickupAddress   string
	DeliveryAddress string
	ParcelType      string
	Description     string
	WeightKg        float64
	ServiceType     entity.ServiceType
	Insurance       bool
}

// Service owns parcel creation and the status state machine.
type Service interface {
	// CreateParcel prices the request, allocates a unique tracking id and
	// persists the parcel in status created with its initial history row.
	CreateParcel(ctx context.Context, req CreateParcelRequest) (*entity.Parcel, *pricing.Quote, error)

	GetParcel(ctx context.Context, id uuid.UUID) (*entity.Parcel, error)
	Track(ctx context.Context, trackingID string) (*entity.Parcel, []entity.StatusHistory, error)
	History(ctx context.Context, parcelID uuid.UUID) ([]entity.StatusHistory, error)

	ListForSender(ctx context.Context, senderID uuid.UUID) ([]entity.Parcel, error)
	ListForDriver(ctx context.Context, driverID uuid.UUID) ([]entity.Parcel, error)
	ListAll(ctx context.Context, filter ListFilter) ([]entity.Parcel, int64, error)
	ListUnassigned(ctx context.Context) ([]entity.Parcel, error)

	// UpdateStatus advances the parcel through its lifecycle. Drivers may only
	// move parcels they hold the active assignment for; admins may move any
	// parcel. Customers have no write access to status.
	UpdateStatus(ctx context.Context, actor Actor, parcelID uuid.UUID, update StatusUpdate) (*entity.Parcel, error)
}

// Actor identifies who is requesting a status change.
type Actor struct {
	UserID   uuid.UUID
	Role     string
	DriverID uuid.UUID // set when Role == "driver"
}
