package repository

import (
	"context"

	"github.com/Klainnoble1/backend-logistics/entity"
	notificationpkg "github.com/Klainnoble1/backend-logistics/notification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormNotificationRepo struct{ db *gorm.DB }

func NewGormNotificationRepo(db *gorm.DB) notificationpkg.Repository {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) CreateNotification(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (r *GormNotificationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error) {
	var list []entity.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}

func (r *GormNotificationRepo) GetPushToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Select("push_token").First(&u, "id = ?", userID).Error; err != nil {
		return "", err
	}
	return u.PushToken, nil
}
