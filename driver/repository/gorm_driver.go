package repository

import (
	"context"
	"errors"
	"time"

	driverpkg "github.com/Klainnoble1/backend-logistics/driver"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormDriverRepo struct{ db *gorm.DB }

func NewGormDriverRepo(db *gorm.DB) driverpkg.Repository { return &GormDriverRepo{db: db} }

func (r *GormDriverRepo) GetDriverByID(ctx context.Context, id uuid.UUID) (*entity.Driver, error) {
	var d entity.Driver
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, driverpkg.ErrDriverNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *GormDriverRepo) GetDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error) {
	var d entity.Driver
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, driverpkg.ErrDriverNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *GormDriverRepo) ListDrivers(ctx context.Context) ([]entity.Driver, error) {
	var list []entity.Driver
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormDriverRepo) ListDriversByStatus(ctx context.Context, status entity.DriverStatus) ([]entity.Driver, error) {
	var list []entity.Driver
	if err := r.db.WithContext(ctx).Where("status = ?", status).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormDriverRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update driverpkg.ProfileUpdate) (*entity.Driver, error) {
	fields := map[string]interface{}{}
	if update.LicenseNumber != nil {
		fields["license_number"] = *update.LicenseNumber
	}
	if update.VehicleType != nil {
		fields["vehicle_type"] = *update.VehicleType
	}
	if update.VehiclePlate != nil {
		fields["vehicle_plate"] = *update.VehiclePlate
	}
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.Driver{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, driverpkg.ErrDriverNotFound
		}
	}
	return r.GetDriverByID(ctx, id)
}

func (r *GormDriverRepo) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&entity.Driver{}).Where("id = ?", id).Updates(map[string]interface{}{
		"latitude":            lat,
		"longitude":           lng,
		"location_updated_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return driverpkg.ErrDriverNotFound
	}
	return nil
}

func (r *GormDriverRepo) SetStatus(ctx context.Context, id uuid.UUID, status entity.DriverStatus) (*entity.Driver, error) {
	var d entity.Driver
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return driverpkg.ErrDriverNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&entity.Assignment{}).
			Where("driver_id = ? AND status = ?", id, entity.AssignmentPending).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return driverpkg.ErrDriverHasActiveAssignment
		}

		if err := tx.Model(&d).Update("status", status).Error; err != nil {
			return err
		}
		d.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDriverRepo) ListAssignments(ctx context.Context, driverID uuid.UUID) ([]entity.Assignment, error) {
	var list []entity.Assignment
	if err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("assigned_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
