package notification

import (
	"context"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// Events is the fire-and-forget notification sink the core services emit
// into. Implementations must never block the caller; delivery failures are
// logged, not returned.
type Events interface {
	ParcelStatusChanged(p *entity.Parcel)
	ParcelAssigned(p *entity.Parcel, a *entity.Assignment, driverUserID uuid.UUID)
	PaymentCompleted(pay *entity.Payment)
}

// Repository defines DB operations for notification records.
type Repository interface {
	CreateNotification(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	GetPushToken(ctx context.Context, userID uuid.UUID) (string, error)
}
