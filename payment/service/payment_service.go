package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/notification"
	"github.com/Klainnoble1/backend-logistics/parcel"
	paymentpkg "github.com/Klainnoble1/backend-logistics/payment"
	"github.com/google/uuid"
)

type paymentService struct {
	repo    paymentpkg.Repository
	parcels parcel.Repository
	gateway paymentpkg.Gateway // nil means degraded mode
	events  notification.Events
}

// NewPaymentService wires payments against the parcel store and an optional
// hosted gateway. gateway and events may be nil.
func NewPaymentService(repo paymentpkg.Repository, parcels parcel.Repository, gw paymentpkg.Gateway, events notification.Events) paymentpkg.Service {
	return &paymentService{repo: repo, parcels: parcels, gateway: gw, events: events}
}

func centsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func (s *paymentService) Initiate(ctx context.Context, req paymentpkg.InitiateRequest) (*paymentpkg.InitiateResult, error) {
	p, err := s.parcels.GetParcelByID(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}
	if !centsEqual(req.Amount, p.Price) {
		return nil, fmt.Errorf("%w: offered %.2f, quoted %.2f", paymentpkg.ErrAmountMismatch, req.Amount, p.Price)
	}

	pay := &entity.Payment{
		ParcelID:      req.ParcelID,
		UserID:        req.UserID,
		Amount:        p.Price,
		PaymentMethod: req.PaymentMethod,
		Status:        entity.PaymentPending,
	}

	if s.gateway != nil {
		// Stamp the reference before registering with the provider so the
		// pending row exists (and is findable by the callback) no matter
		// where the provider call fails.
		pay.TransactionID = "px-" + uuid.NewString()
	}

	stored, err := s.repo.CreatePayment(ctx, pay)
	if err != nil {
		return nil, err
	}

	var checkout *paymentpkg.CheckoutSession
	if s.gateway != nil {
		checkout, err = s.gateway.Initialize(ctx, stored.TransactionID, p.Price, req.Email)
		if err != nil {
			return nil, err
		}
	}
	return &paymentpkg.InitiateResult{Payment: stored, Checkout: checkout}, nil
}

func (s *paymentService) Confirm(ctx context.Context, paymentID uuid.UUID, txRef string) (*entity.Payment, error) {
	p, err := s.repo.MarkCompleted(ctx, paymentID, txRef)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.PaymentCompleted(p)
	}
	return p, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, txRef string) (*entity.Payment, error) {
	if s.gateway == nil {
		return nil, paymentpkg.ErrGatewayUnavailable
	}

	verified, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentpkg.ErrVerificationFailed, err)
	}
	if !verified.Paid {
		return nil, paymentpkg.ErrVerificationFailed
	}

	pay, err := s.repo.GetPaymentByTransactionID(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if !centsEqual(verified.Amount, pay.Amount) {
		return nil, fmt.Errorf("%w: provider settled %.2f, recorded %.2f", paymentpkg.ErrAmountMismatch, verified.Amount, pay.Amount)
	}
	return s.Confirm(ctx, pay.ID, txRef)
}

func (s *paymentService) Refund(ctx context.Context, paymentID uuid.UUID, amount float64) (*entity.Payment, error) {
	pay, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !centsEqual(amount, pay.Amount) {
		return nil, fmt.Errorf("%w: requested %.2f, settled %.2f", paymentpkg.ErrAmountMismatch, amount, pay.Amount)
	}
	return s.repo.MarkRefunded(ctx, paymentID)
}

func (s *paymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return s.repo.GetPaymentByID(ctx, id)
}

func (s *paymentService) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Payment, error) {
	return s.repo.ListPaymentsByUser(ctx, userID)
}

func (s *paymentService) ListForParcel(ctx context.Context, parcelID uuid.UUID) ([]entity.Payment, error) {
	return s.repo.ListPaymentsByParcel(ctx, parcelID)
}
