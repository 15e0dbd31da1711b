package payment

import (
	"context"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// InitiateRequest starts a settlement attempt for a parcel.
type InitiateRequest struct {
	ParcelID      uuid.UUID
	UserID        uuid.UUID
	Email         string
	Amount        float64
	PaymentMethod string
}

// InitiateResult carries the stored payment plus, when a gateway is
// configured, the hosted checkout session to redirect the payer to.
type InitiateResult struct {
	Payment  *entity.Payment
	Checkout *CheckoutSession
}

// Service defines payment business operations.
type Service interface {
	// Initiate validates the amount against the parcel's quoted price and
	// records a pending payment.
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	// Confirm completes a pending payment. Re-confirming an already completed
	// payment with the same reference succeeds without side effects.
	Confirm(ctx context.Context, paymentID uuid.UUID, txRef string) (*entity.Payment, error)
	// HandleCallback verifies the reference with the provider before
	// confirming; the callback body itself is never trusted.
	HandleCallback(ctx context.Context, txRef string) (*entity.Payment, error)
	// Refund moves a completed payment to refunded. Partial refunds are not
	// supported: the requested amount must match the settled amount.
	Refund(ctx context.Context, paymentID uuid.UUID, amount float64) (*entity.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Payment, error)
	ListForParcel(ctx context.Context, parcelID uuid.UUID) ([]entity.Payment, error)
}
