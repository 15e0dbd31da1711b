package auth

import (
	"context"
	"errors"

	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for a bad email/password pair. The same
// error covers both cases so callers cannot probe which emails exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// RegisterRequest carries validated signup inputs.
type RegisterRequest struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     string // customer | driver | admin
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string
	Password string
}

// Principal is the authenticated identity handed back to clients.
type Principal struct {
	UserID   string
	Role     string
	FullName string
	Email    string
	DriverID string // set for the driver role
	Token    string
}

// Service provides registration and login.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Principal, error)
	Login(ctx context.Context, req LoginRequest) (*Principal, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	SetPushToken(ctx context.Context, userID uuid.UUID, token string) error
}
