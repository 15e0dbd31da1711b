package service

import (
	"context"
	"errors"
	"strings"
	"time"

	authpkg "github.com/Klainnoble1/backend-logistics/auth"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type authService struct {
	repo   authpkg.Repository
	secret string
}

// NewAuthService wires authentication against the user store. secret signs
// the issued tokens.
func NewAuthService(repo authpkg.Repository, secret string) authpkg.Service {
	return &authService{repo: repo, secret: secret}
}

func (s *authService) Register(ctx context.Context, req authpkg.RegisterRequest) (*authpkg.Principal, error) {
	role := strings.ToLower(req.Role)
	switch role {
	case "customer", "driver", "admin":
	case "":
		role = "customer"
	default:
		return nil, errors.New("role must be customer, driver or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		FullName:     req.FullName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	var d *entity.Driver
	if role == "driver" {
		d = &entity.Driver{Status: entity.DriverOffline}
	}

	created, err := s.repo.CreateUser(ctx, u, d)
	if err != nil {
		return nil, err
	}
	return s.principalFor(ctx, created)
}

func (s *authService) Login(ctx context.Context, req authpkg.LoginRequest) (*authpkg.Principal, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, authpkg.ErrUserNotFound) {
			return nil, authpkg.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, authpkg.ErrInvalidCredentials
	}
	return s.principalFor(ctx, user)
}

func (s *authService) principalFor(ctx context.Context, user *entity.User) (*authpkg.Principal, error) {
	p := &authpkg.Principal{
		UserID:   user.ID.String(),
		Role:     user.Role,
		FullName: user.FullName,
		Email:    user.Email,
	}
	if user.Role == "driver" {
		if d, err := s.repo.GetDriverByUserID(ctx, user.ID); err == nil {
			p.DriverID = d.ID.String()
		}
	}

	token, err := authpkg.SignJWT(s.secret, p, tokenTTL)
	if err != nil {
		return nil, err
	}
	p.Token = token
	return p, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *authService) SetPushToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.UpdatePushToken(ctx, userID, token)
}
