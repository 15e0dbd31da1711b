package repository

import (
	"context"
	"time"

	adminpkg "github.com/Klainnoble1/backend-logistics/admin"
	"github.com/Klainnoble1/backend-logistics/entity"
	"gorm.io/gorm"
)

// GormAdminRepo implements admin.Repository using GORM.
type GormAdminRepo struct {
	db *gorm.DB
}

func NewGormAdminRepo(db *gorm.DB) adminpkg.Repository {
	return &GormAdminRepo{db: db}
}

func (r *GormAdminRepo) Stats(ctx context.Context) (*adminpkg.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	var s adminpkg.DashboardStats

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&s.TotalParcels, db.Model(&entity.Parcel{})},
		{&s.ParcelsInTransit, db.Model(&entity.Parcel{}).Where("status IN ?", []entity.ParcelStatus{
			entity.ParcelPickedUp, entity.ParcelInTransit, entity.ParcelOutForDelivery,
		})},
		{&s.ParcelsDelivered, db.Model(&entity.Parcel{}).Where("status = ?", entity.ParcelDelivered)},
		{&s.ParcelsFailed, db.Model(&entity.Parcel{}).Where("status = ?", entity.ParcelFailed)},
		{&s.UnassignedParcels, db.Model(&entity.Parcel{}).
			Where("status = ?", entity.ParcelCreated).
			Where("NOT EXISTS (SELECT 1 FROM assignments WHERE assignments.parcel_id = parcels.id)")},
		{&s.TotalDrivers, db.Model(&entity.Driver{})},
		{&s.AvailableDrivers, db.Model(&entity.Driver{}).Where("status = ?", entity.DriverAvailable)},
		{&s.TotalCustomers, db.Model(&entity.User{}).Where("role = ?", "customer")},
		{&s.PendingPayments, db.Model(&entity.Payment{}).Where("payment_status = ?", entity.PaymentPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&entity.Payment{}).
		Where("payment_status = ?", entity.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&s.TotalRevenue).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormAdminRepo) RevenueByDate(ctx context.Context, since time.Time) ([]adminpkg.RevenuePoint, error) {
	q := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("payment_status = ?", entity.PaymentCompleted)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var points []adminpkg.RevenuePoint
	err := q.Select("DATE(created_at) AS date, SUM(amount) AS revenue, COUNT(*) AS count").
		Group("DATE(created_at)").
		Order("date").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *GormAdminRepo) ParcelsByServiceType(ctx context.Context) ([]adminpkg.ServiceTypeCount, error) {
	var counts []adminpkg.ServiceTypeCount
	err := r.db.WithContext(ctx).Model(&entity.Parcel{}).
		Select("service_type, COUNT(*) AS count").
		Group("service_type").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *GormAdminRepo) AverageDeliveryDays(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&entity.Parcel{}).
		Where("status = ? AND actual_delivery_date IS NOT NULL", entity.ParcelDelivered).
		Select("AVG(EXTRACT(EPOCH FROM (actual_delivery_date - created_at)) / 86400)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
