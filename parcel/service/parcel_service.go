package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/Klainnoble1/backend-logistics/notification"
	parcelpkg "github.com/Klainnoble1/backend-logistics/parcel"
	"github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/google/uuid"
)

const (
	trackingIDLength   = 10
	trackingIDCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingIDAttempts = 10
)

type parcelService struct {
	repo    parcelpkg.Repository
	pricing pricing.Service
	events  notification.Events
}

// NewParcelService constructs a parcel Service. events may be nil.
func NewParcelService(repo parcelpkg.Repository, pricingSvc pricing.Service, events notification.Events) parcelpkg.Service {
	return &parcelService{repo: repo, pricing: pricingSvc, events: events}
}

func (s *parcelService) CreateParcel(ctx context.Context, req parcelpkg.CreateParcelRequest) (*entity.Parcel, *pricing.Quote, error) {
	quote, err := s.pricing.Quote(ctx, pricing.QuoteRequest{
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		WeightKg:        req.WeightKg,
		ServiceType:     req.ServiceType,
		Insurance:       req.Insurance,
	})
	if err != nil {
		return nil, nil, err
	}

	trackingID, err := s.uniqueTrackingID(ctx)
	if err != nil {
		return nil, nil, err
	}

	p := &entity.Parcel{
		TrackingID:            trackingID,
		SenderID:              req.SenderID,
		RecipientName:         req.RecipientName,
		RecipientPhone:        req.RecipientPhone,
		PickupAddress:         req.PickupAddress,
		DeliveryAddress:       req.DeliveryAddress,
		ParcelType:            req.ParcelType,
		Description:           req.Description,
		WeightKg:              req.WeightKg,
		ServiceType:           req.ServiceType,
		Insurance:             req.Insurance,
		Status:                entity.ParcelCreated,
		Price:                 quote.Price,
		DistanceKm:            quote.DistanceKm,
		EstimatedDeliveryDate: quote.EstimatedDeliveryDate,
		CurrentLocation:       req.PickupAddress,
	}
	initial := &entity.StatusHistory{
		Status:    entity.ParcelCreated,
		Location:  req.PickupAddress,
		UpdatedBy: req.SenderID,
		Notes:     "Parcel created",
	}

	created, err := s.repo.CreateParcel(ctx, p, initial)
	if err != nil {
		return nil, nil, err
	}
	return created, quote, nil
}

// uniqueTrackingID generates random ids until one is free. Collisions are
// vanishingly rare in a 36^10 space, so a handful of attempts is plenty.
func (s *parcelService) uniqueTrackingID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < trackingIDAttempts; attempt++ {
		id, err := generateTrackingID()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.TrackingIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique tracking id after %d attempts", trackingIDAttempts)
}

func generateTrackingID() (string, error) {
	buf := make([]byte, trackingIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate tracking id: %w", err)
	}
	for i, b := range buf {
		buf[i] = trackingIDCharset[int(b)%len(trackingIDCharset)]
	}
	return string(buf), nil
}

func (s *parcelService) GetParcel(ctx context.Context, id uuid.UUID) (*entity.Parcel, error) {
	return s.repo.GetParcelByID(ctx, id)
}

func (s *parcelService) Track(ctx context.Context, trackingID string) (*entity.Parcel, []entity.StatusHistory, error) {
	p, err := s.repo.GetParcelByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.repo.ListStatusHistory(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, history, nil
}

func (s *parcelService) History(ctx context.Context, parcelID uuid.UUID) ([]entity.StatusHistory, error) {
	return s.repo.ListStatusHistory(ctx, parcelID)
}

func (s *parcelService) ListForSender(ctx context.Context, senderID uuid.UUID) ([]entity.Parcel, error) {
	return s.repo.ListParcelsBySender(ctx, senderID)
}

func (s *parcelService) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]entity.Parcel, error) {
	return s.repo.ListParcelsForDriver(ctx, driverID)
}

func (s *parcelService) ListAll(ctx context.Context, filter parcelpkg.ListFilter) ([]entity.Parcel, int64, error) {
	return s.repo.ListParcels(ctx, filter)
}

func (s *parcelService) ListUnassigned(ctx context.Context) ([]entity.Parcel, error) {
	return s.repo.ListUnassignedParcels(ctx)
}

func (s *parcelService) UpdateStatus(ctx context.Context, actor parcelpkg.Actor, parcelID uuid.UUID, update parcelpkg.StatusUpdate) (*entity.Parcel, error) {
	if actor.Role == "driver" {
		assignment, err := s.repo.GetActiveAssignment(ctx, parcelID)
		if err != nil {
			return nil, err
		}
		if assignment == nil || assignment.DriverID != actor.DriverID {
			return nil, parcelpkg.ErrNotAssigned
		}
	}

	update.UpdatedBy = actor.UserID
	updated, err := s.repo.TransitionStatus(ctx, parcelID, update)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.ParcelStatusChanged(updated)
	}
	return updated, nil
}
