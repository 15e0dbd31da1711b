package driver

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// ErrDriverHasActiveAssignment is returned when a driver tries to change
// availability while still carrying a parcel.
var ErrDriverHasActiveAssignment = errors.New("driver has an active assignment")

// ErrInvalidAvailability is returned when the requested status is not one a
// driver may set directly (only available and offline are).
var ErrInvalidAvailability = errors.New("availability must be available or offline")

// Service defines business operations on the driver surface.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Driver, error)
	ListDrivers(ctx context.Context) ([]entity.Driver, error)
	ListAvailableDrivers(ctx context.Context) ([]entity.Driver, error)
	UpdateProfile(ctx context.Context, driverID uuid.UUID, update ProfileUpdate) (*entity.Driver, error)
	UpdateLocation(ctx context.Context, driverID uuid.UUID, lat, lng float64) error
	SetAvailability(ctx context.Context, driverID uuid.UUID, status entity.DriverStatus) (*entity.Driver, error)
	ListAssignments(ctx context.Context, driverID uuid.UUID) ([]entity.Assignment, error)
}
