package admin

import (
	"context"
	"time"
)

// Service exposes the admin dashboard and analytics.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	// Report aggregates analytics since the given time (zero time means all
	// history).
	Report(ctx context.Context, since time.Time) (*Analytics, error)
}
