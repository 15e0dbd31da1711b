package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	parcelpkg "github.com/Klainnoble1/backend-logistics/parcel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormParcelRepo struct{ db *gorm.DB }

func NewGormParcelRepo(db *gorm.DB) parcelpkg.Repository { return &GormParcelRepo{db: db} }

func (r *GormParcelRepo) CreateParcel(ctx context.Context, p *entity.Parcel, initial *entity.StatusHistory) (*entity.Parcel, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		initial.ParcelID = p.ID
		return tx.Create(initial).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *GormParcelRepo) GetParcelByID(ctx context.Context, id uuid.UUID) (*entity.Parcel, error) {
	var p entity.Parcel
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parcelpkg.ErrParcelNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormParcelRepo) GetParcelByTrackingID(ctx context.Context, trackingID string) (*entity.Parcel, error) {
	var p entity.Parcel
	if err := r.db.WithContext(ctx).Where("tracking_id = ?", trackingID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parcelpkg.ErrParcelNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormParcelRepo) TrackingIDExists(ctx context.Context, trackingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Parcel{}).
		Where("tracking_id = ?", trackingID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormParcelRepo) ListParcelsBySender(ctx context.Context, senderID uuid.UUID) ([]entity.Parcel, error) {
	var list []entity.Parcel
	if err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormParcelRepo) ListParcelsForDriver(ctx context.Context, driverID uuid.UUID) ([]entity.Parcel, error) {
	var list []entity.Parcel
	if err := r.db.WithContext(ctx).
		Joins("INNER JOIN assignments ON assignments.parcel_id = parcels.id").
		Where("assignments.driver_id = ?", driverID).
		Order("parcels.created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormParcelRepo) ListParcels(ctx context.Context, filter parcelpkg.ListFilter) ([]entity.Parcel, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Parcel{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var list []entity.Parcel
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *GormParcelRepo) ListUnassignedParcels(ctx context.Context) ([]entity.Parcel, error) {
	var list []entity.Parcel
	if err := r.db.WithContext(ctx).
		Where("status = ?", entity.ParcelCreated).
		Where("NOT EXISTS (SELECT 1 FROM assignments WHERE assignments.parcel_id = parcels.id)").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormParcelRepo) ListStatusHistory(ctx context.Context, parcelID uuid.UUID) ([]entity.StatusHistory, error) {
	var history []entity.StatusHistory
	if err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *GormParcelRepo) GetActiveAssignment(ctx context.Context, parcelID uuid.UUID) (*entity.Assignment, error) {
	var a entity.Assignment
	err := r.db.WithContext(ctx).
		Where("parcel_id = ? AND status = ?", parcelID, entity.AssignmentPending).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormParcelRepo) TransitionStatus(ctx context.Context, parcelID uuid.UUID, update parcelpkg.StatusUpdate) (*entity.Parcel, error) {
	var p entity.Parcel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock so concurrent transitions on the same parcel serialize.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", parcelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return parcelpkg.ErrParcelNotFound
			}
			return err
		}

		if !entity.CanTransition(p.Status, update.Status) {
			return fmt.Errorf("%w: %s -> %s", parcelpkg.ErrInvalidTransition, p.Status, update.Status)
		}

		location := update.Location
		if location == "" {
			location = p.CurrentLocation
		}

		fields := map[string]interface{}{
			"status":           update.Status,
			"current_location": location,
		}
		if update.Status == entity.ParcelDelivered {
			now := time.Now()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			fields["actual_delivery_date"] = today
			p.ActualDeliveryDate = &today
		}
		if err := tx.Model(&p).Updates(fields).Error; err != nil {
			return err
		}
		p.Status = update.Status
		p.CurrentLocation = location

		history := &entity.StatusHistory{
			ParcelID:  parcelID,
			Status:    update.Status,
			Location:  location,
			UpdatedBy: update.UpdatedBy,
			Notes:     update.Notes,
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		// Terminal statuses release the driver back into the pool and close
		// out the assignment.
		if update.Status.IsTerminal() {
			var a entity.Assignment
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("parcel_id = ? AND status = ?", parcelID, entity.AssignmentPending).
				First(&a).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			if err := tx.Model(&a).Update("status", entity.AssignmentCompleted).Error; err != nil {
				return err
			}
			if err := tx.Model(&entity.Driver{}).
				Where("id = ? AND status = ?", a.DriverID, entity.DriverBusy).
				Update("status", entity.DriverAvailable).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
