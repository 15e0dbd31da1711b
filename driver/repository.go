package driver

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// ErrDriverNotFound is returned for unknown driver ids or user ids.
var ErrDriverNotFound = errors.New("driver not found")

// ProfileUpdate lists the driver fields a profile edit may touch. Nil fields
// are left untouched.
type ProfileUpdate struct {
	LicenseNumber *string
	VehicleType   *string
	VehiclePlate  *string
}

// Repository defines storage operations for drivers.
type Repository interface {
	GetDriverByID(ctx context.Context, id uuid.UUID) (*entity.Driver, error)
	GetDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error)
	ListDrivers(ctx context.Context) ([]entity.Driver, error)
	ListDriversByStatus(ctx context.Context, status entity.DriverStatus) ([]entity.Driver, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*entity.Driver, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error
	// SetStatus flips availability between available and offline inside a
	// transaction. It refuses the change when the driver holds an active
	// assignment; busy is never set through this path.
	SetStatus(ctx context.Context, id uuid.UUID, status entity.DriverStatus) (*entity.Driver, error)
	ListAssignments(ctx context.Context, driverID uuid.UUID) ([]entity.Assignment, error)
}
