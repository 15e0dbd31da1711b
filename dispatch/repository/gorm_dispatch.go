package repository

import (
	"context"
	"errors"
	"strings"

	dispatchpkg "github.com/Klainnoble1/backend-logistics/dispatch"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormDispatchRepo struct{ db *gorm.DB }

func NewGormDispatchRepo(db *gorm.DB) dispatchpkg.Repository { return &GormDispatchRepo{db: db} }

func (r *GormDispatchRepo) Claim(ctx context.Context, parcelID, driverID, actorID uuid.UUID) (*dispatchpkg.ClaimResult, error) {
	var result dispatchpkg.ClaimResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p entity.Parcel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", parcelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dispatchpkg.ErrParcelNotFound
			}
			return err
		}
		if p.Status != entity.ParcelCreated {
			return dispatchpkg.ErrParcelNotAvailable
		}

		var existing int64
		if err := tx.Model(&entity.Assignment{}).
			Where("parcel_id = ?", parcelID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return dispatchpkg.ErrParcelAlreadyAssigned
		}

		var d entity.Driver
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "id = ?", driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dispatchpkg.ErrDriverNotFound
			}
			return err
		}
		if d.Status == entity.DriverBusy {
			return dispatchpkg.ErrDriverBusy
		}

		a := &entity.Assignment{
			ParcelID:   parcelID,
			DriverID:   driverID,
			AssignedBy: actorID,
			Status:     entity.AssignmentPending,
		}
		if err := tx.Create(a).Error; err != nil {
			// The unique index on parcel_id backstops the existence check when
			// two transactions race past it.
			if strings.Contains(err.Error(), "duplicate key") {
				return dispatchpkg.ErrParcelAlreadyAssigned
			}
			return err
		}

		if err := tx.Model(&d).Update("status", entity.DriverBusy).Error; err != nil {
			return err
		}
		d.Status = entity.DriverBusy

		if err := tx.Model(&p).Update("status", entity.ParcelPickedUp).Error; err != nil {
			return err
		}
		p.Status = entity.ParcelPickedUp

		history := &entity.StatusHistory{
			ParcelID:  parcelID,
			Status:    entity.ParcelPickedUp,
			Location:  p.PickupAddress,
			UpdatedBy: actorID,
			Notes:     "assigned to driver",
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		result = dispatchpkg.ClaimResult{Assignment: a, Parcel: &p, Driver: &d}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
