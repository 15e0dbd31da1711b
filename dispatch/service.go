package dispatch

import (
	"context"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// Service exposes the two assignment entry points. Both funnel into the same
// claim transaction; they differ only in who picks the driver.
type Service interface {
	// ClaimParcel lets a driver pull a parcel from the unassigned pool.
	ClaimParcel(ctx context.Context, parcelID, driverID uuid.UUID) (*ClaimResult, error)
	// AssignParcel lets an admin push a parcel onto a chosen driver.
	AssignParcel(ctx context.Context, parcelID, driverID, adminID uuid.UUID) (*ClaimResult, error)
}

// Events is the subset of notification fan-out dispatch needs.
type Events interface {
	ParcelAssigned(p *entity.Parcel, a *entity.Assignment, driverUserID uuid.UUID)
}
