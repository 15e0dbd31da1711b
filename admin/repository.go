package admin

import (
	"context"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
)

// DashboardStats is the headline counters for the admin dashboard.
type DashboardStats struct {
	TotalParcels      int64   `json:"total_parcels"`
	ParcelsInTransit  int64   `json:"parcels_in_transit"`
	ParcelsDelivered  int64   `json:"parcels_delivered"`
	ParcelsFailed     int64   `json:"parcels_failed"`
	UnassignedParcels int64   `json:"unassigned_parcels"`
	TotalDrivers      int64   `json:"total_drivers"`
	AvailableDrivers  int64   `json:"available_drivers"`
	TotalCustomers    int64   `json:"total_customers"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingPayments   int64   `json:"pending_payments"`
}

// RevenuePoint is completed-payment revenue aggregated per day.
type RevenuePoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Count   int64     `json:"count"`
}

// ServiceTypeCount groups parcels by service tier.
type ServiceTypeCount struct {
	ServiceType entity.ServiceType `json:"service_type"`
	Count       int64              `json:"count"`
}

// Analytics bundles the reporting queries.
type Analytics struct {
	RevenueByDate       []RevenuePoint     `json:"revenue_by_date"`
	ParcelsByService    []ServiceTypeCount `json:"parcels_by_service"`
	AverageDeliveryDays float64            `json:"average_delivery_days"`
}

// Repository specifies the admin reporting queries.
type Repository interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	RevenueByDate(ctx context.Context, since time.Time) ([]RevenuePoint, error)
	ParcelsByServiceType(ctx context.Context) ([]ServiceTypeCount, error)
	AverageDeliveryDays(ctx context.Context) (float64, error)
}
