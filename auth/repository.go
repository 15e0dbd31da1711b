package auth

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

var (
	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned for unknown emails or user ids.
	ErrUserNotFound = errors.New("user not found")
)

// Repository exposes user storage used for authentication.
type Repository interface {
	// CreateUser stores the user and, for the driver role, its driver profile
	// row in one transaction.
	CreateUser(ctx context.Context, u *entity.User, d *entity.Driver) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetDriverByUserID(ctx context.Context, userID uuid.UUID) (*entity.Driver, error)
	UpdatePushToken(ctx context.Context, userID uuid.UUID, token string) error
}
