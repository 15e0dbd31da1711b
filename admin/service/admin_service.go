package service

import (
	"context"
	"time"

	adminpkg "github.com/Klainnoble1/backend-logistics/admin"
)

type adminService struct {
	repo adminpkg.Repository
}

func NewAdminService(repo adminpkg.Repository) adminpkg.Service {
	return &adminService{repo: repo}
}

func (s *adminService) Dashboard(ctx context.Context) (*adminpkg.DashboardStats, error) {
	return s.repo.Stats(ctx)
}

func (s *adminService) Report(ctx context.Context, since time.Time) (*adminpkg.Analytics, error) {
	revenue, err := s.repo.RevenueByDate(ctx, since)
	if err != nil {
		return nil, err
	}
	byService, err := s.repo.ParcelsByServiceType(ctx)
	if err != nil {
		return nil, err
	}
	avgDays, err := s.repo.AverageDeliveryDays(ctx)
	if err != nil {
		return nil, err
	}
	return &adminpkg.Analytics{
		RevenueByDate:       revenue,
		ParcelsByService:    byService,
		AverageDeliveryDays: avgDays,
	}, nil
}
