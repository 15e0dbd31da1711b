package repository

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	paymentpkg "github.com/Klainnoble1/backend-logistics/payment"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPaymentRepo struct{ db *gorm.DB }

func NewGormPaymentRepo(db *gorm.DB) paymentpkg.Repository { return &GormPaymentRepo{db: db} }

func (r *GormPaymentRepo) CreatePayment(ctx context.Context, p *entity.Payment) (*entity.Payment, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *GormPaymentRepo) GetPaymentByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentpkg.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPaymentRepo) GetPaymentByTransactionID(ctx context.Context, txRef string) (*entity.Payment, error) {
	var p entity.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", txRef).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentpkg.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPaymentRepo) MarkCompleted(ctx context.Context, id uuid.UUID, txRef string) (*entity.Payment, error) {
	var p entity.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return paymentpkg.ErrPaymentNotFound
			}
			return err
		}
		// Re-confirming an already completed payment is a no-op.
		if p.Status == entity.PaymentCompleted {
			return nil
		}
		if p.Status != entity.PaymentPending {
			return paymentpkg.ErrPaymentNotCompleted
		}
		if err := tx.Model(&p).Updates(map[string]interface{}{
			"payment_status": entity.PaymentCompleted,
			"transaction_id": txRef,
		}).Error; err != nil {
			return err
		}
		p.Status = entity.PaymentCompleted
		p.TransactionID = txRef
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPaymentRepo) MarkRefunded(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var p entity.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return paymentpkg.ErrPaymentNotFound
			}
			return err
		}
		if p.Status != entity.PaymentCompleted {
			return paymentpkg.ErrPaymentNotCompleted
		}
		if err := tx.Model(&p).Update("payment_status", entity.PaymentRefunded).Error; err != nil {
			return err
		}
		p.Status = entity.PaymentRefunded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPaymentRepo) ListPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]entity.Payment, error) {
	var list []entity.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormPaymentRepo) ListPaymentsByParcel(ctx context.Context, parcelID uuid.UUID) ([]entity.Payment, error) {
	var list []entity.Payment
	if err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
