package dispatch

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

var (
	// ErrParcelNotFound is returned when the claimed parcel does not exist.
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrParcelAlreadyAssigned is returned when an assignment row already
	// exists for the parcel. Exactly one claimant can ever win.
	ErrParcelAlreadyAssigned = errors.New("parcel already assigned")
	// ErrParcelNotAvailable is returned when the parcel has moved past the
	// created status and can no longer enter the pool.
	ErrParcelNotAvailable = errors.New("parcel not available for assignment")
	// ErrDriverNotFound is returned for unknown driver ids.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrDriverBusy is returned when the driver already carries an active
	// assignment.
	ErrDriverBusy = errors.New("driver has an active assignment")
)

// ClaimResult is the outcome of a successful claim transaction.
type ClaimResult struct {
	Assignment *entity.Assignment
	Parcel     *entity.Parcel
	Driver     *entity.Driver
}

// Repository defines the transactional assignment operations.
type Repository interface {
	// Claim atomically binds the parcel to the driver: it creates the
	// assignment, marks the driver busy, moves the parcel to picked_up and
	// appends the history row. All checks and effects happen in one
	// transaction; a losing concurrent claimant observes either
	// ErrParcelAlreadyAssigned or ErrParcelNotAvailable and no partial state.
	Claim(ctx context.Context, parcelID, driverID, actorID uuid.UUID) (*ClaimResult, error)
}
