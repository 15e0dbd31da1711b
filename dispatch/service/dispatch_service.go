package service

import (
	"context"

	dispatchpkg "github.com/Klainnoble1/backend-logistics/dispatch"
	"github.com/google/uuid"
)

type dispatchService struct {
	repo   dispatchpkg.Repository
	events dispatchpkg.Events
}

// NewDispatchService wires the claim repository with the notification fan-out.
// events may be nil in tests.
func NewDispatchService(repo dispatchpkg.Repository, events dispatchpkg.Events) dispatchpkg.Service {
	return &dispatchService{repo: repo, events: events}
}

func (s *dispatchService) ClaimParcel(ctx context.Context, parcelID, driverID uuid.UUID) (*dispatchpkg.ClaimResult, error) {
	return s.claim(ctx, parcelID, driverID, driverID)
}

func (s *dispatchService) AssignParcel(ctx context.Context, parcelID, driverID, adminID uuid.UUID) (*dispatchpkg.ClaimResult, error) {
	return s.claim(ctx, parcelID, driverID, adminID)
}

func (s *dispatchService) claim(ctx context.Context, parcelID, driverID, actorID uuid.UUID) (*dispatchpkg.ClaimResult, error) {
	res, err := s.repo.Claim(ctx, parcelID, driverID, actorID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.ParcelAssigned(res.Parcel, res.Assignment, res.Driver.UserID)
	}
	return res, nil
}
