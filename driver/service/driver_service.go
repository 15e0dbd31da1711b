package service

import (
	"context"

	driverpkg "github.com/Klainnoble1/backend-logistics/driver"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

type driverService struct {
	repo driverpkg.Repository
}

func NewDriverService(repo driverpkg.Repository) driverpkg.Service {
	return &driverService{repo: repo}
}

func (s *driverService) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error) {
	return s.repo.GetDriverByUserID(ctx, userID)
}

func (s *driverService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Driver, error) {
	return s.repo.GetDriverByID(ctx, id)
}

func (s *driverService) ListDrivers(ctx context.Context) ([]entity.Driver, error) {
	return s.repo.ListDrivers(ctx)
}

func (s *driverService) ListAvailableDrivers(ctx context.Context) ([]entity.Driver, error) {
	return s.repo.ListDriversByStatus(ctx, entity.DriverAvailable)
}

func (s *driverService) UpdateProfile(ctx context.Context, driverID uuid.UUID, update driverpkg.ProfileUpdate) (*entity.Driver, error) {
	return s.repo.UpdateProfile(ctx, driverID, update)
}

func (s *driverService) UpdateLocation(ctx context.Context, driverID uuid.UUID, lat, lng float64) error {
	return s.repo.UpdateLocation(ctx, driverID, lat, lng)
}

func (s *driverService) SetAvailability(ctx context.Context, driverID uuid.UUID, status entity.DriverStatus) (*entity.Driver, error) {
	if status != entity.DriverAvailable && status != entity.DriverOffline {
		return nil, driverpkg.ErrInvalidAvailability
	}
	return s.repo.SetStatus(ctx, driverID, status)
}

func (s *driverService) ListAssignments(ctx context.Context, driverID uuid.UUID) ([]entity.Assignment, error) {
	return s.repo.ListAssignments(ctx, driverID)
}
