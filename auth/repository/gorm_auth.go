package repository

import (
	"context"
	"errors"
	"strings"

	authpkg "github.com/Klainnoble1/backend-logistics/auth"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormAuthRepo struct {
	db *gorm.DB
}

func NewGormAuthRepo(db *gorm.DB) authpkg.Repository {
	return &GormAuthRepo{db: db}
}

func (r *GormAuthRepo) CreateUser(ctx context.Context, u *entity.User, d *entity.Driver) (*entity.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return authpkg.ErrEmailTaken
			}
			return err
		}
		if d != nil {
			d.UserID = u.ID
			return tx.Create(d).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *GormAuthRepo) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authpkg.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authpkg.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *GormAuthRepo) GetDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error) {
	var d entity.Driver
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormAuthRepo) UpdatePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Update("push_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return authpkg.ErrUserNotFound
	}
	return nil
}
