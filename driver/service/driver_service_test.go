package service

import (
	"context"
	"errors"
	"testing"

	driverpkg "github.com/Klainnoble1/backend-logistics/driver"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

type fakeDriverRepo struct {
	driverpkg.Repository
	driver     *entity.Driver
	hasPending bool
}

func (f *fakeDriverRepo) SetStatus(_ context.Context, id uuid.UUID, status entity.DriverStatus) (*entity.Driver, error) {
	if f.driver == nil || f.driver.ID != id {
		return nil, driverpkg.ErrDriverNotFound
	}
	if f.hasPending {
		return nil, driverpkg.ErrDriverHasActiveAssignment
	}
	f.driver.Status = status
	return f.driver, nil
}

func TestSetAvailability(t *testing.T) {
	id := uuid.New()
	repo := &fakeDriverRepo{driver: &entity.Driver{ID: id, Status: entity.DriverOffline}}
	svc := NewDriverService(repo)

	d, err := svc.SetAvailability(context.Background(), id, entity.DriverAvailable)
	if err != nil {
		t.Fatalf("SetAvailability failed: %v", err)
	}
	if d.Status != entity.DriverAvailable {
		t.Fatalf("status = %s, want available", d.Status)
	}

	// busy is reserved for the assignment protocol
	if _, err := svc.SetAvailability(context.Background(), id, entity.DriverBusy); !errors.Is(err, driverpkg.ErrInvalidAvailability) {
		t.Fatalf("busy err = %v, want ErrInvalidAvailability", err)
	}

	repo.hasPending = true
	if _, err := svc.SetAvailability(context.Background(), id, entity.DriverOffline); !errors.Is(err, driverpkg.ErrDriverHasActiveAssignment) {
		t.Fatalf("active assignment err = %v, want ErrDriverHasActiveAssignment", err)
	}
}
