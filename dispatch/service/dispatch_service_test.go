package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	dispatchpkg "github.com/Klainnoble1/backend-logistics/dispatch"
	"github.com/Klainnoble1/backend-logistics/entity"
	"github.com/google/uuid"
)

// memDispatchRepo mirrors the transactional claim semantics in memory: the
// whole check-and-mutate sequence runs under one lock, as the database
// transaction does with row locks.
type memDispatchRepo struct {
	mu       sync.Mutex
	parcels  map[uuid.UUID]*entity.Parcel
	drivers  map[uuid.UUID]*entity.Driver
	assigned map[uuid.UUID]*entity.Assignment // keyed by parcel id
	history  []entity.StatusHistory
}

func newMemDispatchRepo() *memDispatchRepo {
	return &memDispatchRepo{
		parcels:  map[uuid.UUID]*entity.Parcel{},
		drivers:  map[uuid.UUID]*entity.Driver{},
		assigned: map[uuid.UUID]*entity.Assignment{},
	}
}

func (r *memDispatchRepo) Claim(_ context.Context, parcelID, driverID, actorID uuid.UUID) (*dispatchpkg.ClaimResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.parcels[parcelID]
	if !ok {
		return nil, dispatchpkg.ErrParcelNotFound
	}
	if _, taken := r.assigned[parcelID]; taken {
		return nil, dispatchpkg.ErrParcelAlreadyAssigned
	}
	if p.Status != entity.ParcelCreated {
		return nil, dispatchpkg.ErrParcelNotAvailable
	}
	d, ok := r.drivers[driverID]
	if !ok {
		return nil, dispatchpkg.ErrDriverNotFound
	}
	if d.Status == entity.DriverBusy {
		return nil, dispatchpkg.ErrDriverBusy
	}

	a := &entity.Assignment{
		ID:         uuid.New(),
		ParcelID:   parcelID,
		DriverID:   driverID,
		AssignedBy: actorID,
		Status:     entity.AssignmentPending,
	}
	r.assigned[parcelID] = a
	d.Status = entity.DriverBusy
	p.Status = entity.ParcelPickedUp
	r.history = append(r.history, entity.StatusHistory{
		ParcelID: parcelID, Status: entity.ParcelPickedUp, UpdatedBy: actorID,
	})
	return &dispatchpkg.ClaimResult{Assignment: a, Parcel: p, Driver: d}, nil
}

func seedParcel(r *memDispatchRepo, status entity.ParcelStatus) uuid.UUID {
	id := uuid.New()
	r.parcels[id] = &entity.Parcel{ID: id, Status: status}
	return id
}

func seedDriver(r *memDispatchRepo, status entity.DriverStatus) uuid.UUID {
	id := uuid.New()
	r.drivers[id] = &entity.Driver{ID: id, UserID: uuid.New(), Status: status}
	return id
}

func TestClaimParcel(t *testing.T) {
	repo := newMemDispatchRepo()
	svc := NewDispatchService(repo, nil)

	parcelID := seedParcel(repo, entity.ParcelCreated)
	driverID := seedDriver(repo, entity.DriverAvailable)

	res, err := svc.ClaimParcel(context.Background(), parcelID, driverID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if res.Parcel.Status != entity.ParcelPickedUp {
		t.Fatalf("parcel status = %s, want picked_up", res.Parcel.Status)
	}
	if res.Driver.Status != entity.DriverBusy {
		t.Fatalf("driver status = %s, want busy", res.Driver.Status)
	}
	if res.Assignment.Status != entity.AssignmentPending {
		t.Fatalf("assignment status = %s, want pending", res.Assignment.Status)
	}
	if len(repo.history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(repo.history))
	}

	// Second claim on the same parcel must lose.
	other := seedDriver(repo, entity.DriverAvailable)
	if _, err := svc.ClaimParcel(context.Background(), parcelID, other); !errors.Is(err, dispatchpkg.ErrParcelAlreadyAssigned) {
		t.Fatalf("second claim err = %v, want ErrParcelAlreadyAssigned", err)
	}
}

func TestClaimParcelConcurrent(t *testing.T) {
	repo := newMemDispatchRepo()
	svc := NewDispatchService(repo, nil)

	parcelID := seedParcel(repo, entity.ParcelCreated)

	const n = 20
	drivers := make([]uuid.UUID, n)
	for i := range drivers {
		drivers[i] = seedDriver(repo, entity.DriverAvailable)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ClaimParcel(context.Background(), parcelID, drivers[i])
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, dispatchpkg.ErrParcelAlreadyAssigned):
		case errors.Is(err, dispatchpkg.ErrParcelNotAvailable):
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}

	if repo.parcels[parcelID].Status != entity.ParcelPickedUp {
		t.Fatalf("parcel status = %s, want picked_up", repo.parcels[parcelID].Status)
	}
	busy := 0
	for _, d := range repo.drivers {
		if d.Status == entity.DriverBusy {
			busy++
		}
	}
	if busy != 1 {
		t.Fatalf("busy drivers = %d, want 1", busy)
	}
	if len(repo.history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(repo.history))
	}
}

func TestClaimParcelRejections(t *testing.T) {
	repo := newMemDispatchRepo()
	svc := NewDispatchService(repo, nil)

	inTransit := seedParcel(repo, entity.ParcelInTransit)
	created := seedParcel(repo, entity.ParcelCreated)
	free := seedDriver(repo, entity.DriverAvailable)
	busy := seedDriver(repo, entity.DriverBusy)

	if _, err := svc.ClaimParcel(context.Background(), inTransit, free); !errors.Is(err, dispatchpkg.ErrParcelNotAvailable) {
		t.Fatalf("in-transit claim err = %v, want ErrParcelNotAvailable", err)
	}
	if _, err := svc.ClaimParcel(context.Background(), created, busy); !errors.Is(err, dispatchpkg.ErrDriverBusy) {
		t.Fatalf("busy driver claim err = %v, want ErrDriverBusy", err)
	}
	if _, err := svc.ClaimParcel(context.Background(), uuid.New(), free); !errors.Is(err, dispatchpkg.ErrParcelNotFound) {
		t.Fatalf("missing parcel claim err = %v, want ErrParcelNotFound", err)
	}
	if _, err := svc.ClaimParcel(context.Background(), created, uuid.New()); !errors.Is(err, dispatchpkg.ErrDriverNotFound) {
		t.Fatalf("missing driver claim err = %v, want ErrDriverNotFound", err)
	}
}
