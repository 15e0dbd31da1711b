package payment

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

var (
	// ErrPaymentNotFound is returned for unknown payment ids or references.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAmountMismatch is returned when the amount offered or verified does
	// not equal the parcel's quoted price.
	ErrAmountMismatch = errors.New("payment amount does not match parcel price")
	// ErrPaymentNotCompleted is returned when a refund is requested for a
	// payment that never completed.
	ErrPaymentNotCompleted = errors.New("payment is not completed")
	// ErrVerificationFailed is returned when the provider's server-to-server
	// verification rejects the transaction reference.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrGatewayUnavailable is returned by operations that need the provider
	// when the service runs without one configured.
	ErrGatewayUnavailable = errors.New("payment gateway not configured")
)

// Repository defines DB operations for payments.
type Repository interface {
	CreatePayment(ctx context.Context, p *entity.Payment) (*entity.Payment, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetPaymentByTransactionID(ctx context.Context, txRef string) (*entity.Payment, error)
	// MarkCompleted transitions pending -> completed and stamps the
	// transaction reference. Calling it again with the same reference is a
	// no-op returning the stored row, which makes confirmation idempotent.
	MarkCompleted(ctx context.Context, id uuid.UUID, txRef string) (*entity.Payment, error)
	// MarkRefunded transitions completed -> refunded; any other source status
	// yields ErrPaymentNotCompleted.
	MarkRefunded(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	ListPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]entity.Payment, error)
	ListPaymentsByParcel(ctx context.Context, parcelID uuid.UUID) ([]entity.Payment, error)
}
