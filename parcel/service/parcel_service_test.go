package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Klainnoble1/backend-logistics/entity"
	parcelpkg "github.com/Klainnoble1/backend-logistics/parcel"
	"github.com/Klainnoble1/backend-logistics/pricing"
	"github.com/google/uuid"
)

// memParcelRepo mirrors the transactional repository semantics in memory,
// including the lifecycle check and the terminal-status driver release.
type memParcelRepo struct {
	parcels     map[uuid.UUID]*entity.Parcel
	history     map[uuid.UUID][]entity.StatusHistory
	assignments map[uuid.UUID]*entity.Assignment // keyed by parcel id
	drivers     map[uuid.UUID]*entity.Driver
	taken       map[string]bool // pre-seeded tracking ids

	collideFirst int // force this many TrackingIDExists collisions
	existsChecks int
}

func newMemParcelRepo() *memParcelRepo {
	return &memParcelRepo{
		parcels:     map[uuid.UUID]*entity.Parcel{},
		history:     map[uuid.UUID][]entity.StatusHistory{},
		assignments: map[uuid.UUID]*entity.Assignment{},
		drivers:     map[uuid.UUID]*entity.Driver{},
		taken:       map[string]bool{},
	}
}

func (r *memParcelRepo) CreateParcel(_ context.Context, p *entity.Parcel, initial *entity.StatusHistory) (*entity.Parcel, error) {
	p.ID = uuid.New()
	r.parcels[p.ID] = p
	r.taken[p.TrackingID] = true
	initial.ParcelID = p.ID
	r.history[p.ID] = append(r.history[p.ID], *initial)
	return p, nil
}

func (r *memParcelRepo) GetParcelByID(_ context.Context, id uuid.UUID) (*entity.Parcel, error) {
	p, ok := r.parcels[id]
	if !ok {
		return nil, parcelpkg.ErrParcelNotFound
	}
	return p, nil
}

func (r *memParcelRepo) GetParcelByTrackingID(_ context.Context, trackingID string) (*entity.Parcel, error) {
	for _, p := range r.parcels {
		if p.TrackingID == trackingID {
			return p, nil
		}
	}
	return nil, parcelpkg.ErrParcelNotFound
}

func (r *memParcelRepo) TrackingIDExists(_ context.Context, trackingID string) (bool, error) {
	r.existsChecks++
	if r.collideFirst > 0 {
		r.collideFirst--
		return true, nil
	}
	return r.taken[trackingID], nil
}

func (r *memParcelRepo) ListParcelsBySender(_ context.Context, senderID uuid.UUID) ([]entity.Parcel, error) {
	var list []entity.Parcel
	for _, p := range r.parcels {
		if p.SenderID == senderID {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (r *memParcelRepo) ListParcelsForDriver(_ context.Context, driverID uuid.UUID) ([]entity.Parcel, error) {
	var list []entity.Parcel
	for pid, a := range r.assignments {
		if a.DriverID == driverID {
			list = append(list, *r.parcels[pid])
		}
	}
	return list, nil
}

func (r *memParcelRepo) ListParcels(_ context.Context, filter parcelpkg.ListFilter) ([]entity.Parcel, int64, error) {
	var list []entity.Parcel
	for _, p := range r.parcels {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		list = append(list, *p)
	}
	return list, int64(len(list)), nil
}

func (r *memParcelRepo) ListUnassignedParcels(_ context.Context) ([]entity.Parcel, error) {
	var list []entity.Parcel
	for id, p := range r.parcels {
		if p.Status != entity.ParcelCreated {
			continue
		}
		if _, ok := r.assignments[id]; ok {
			continue
		}
		list = append(list, *p)
	}
	return list, nil
}

func (r *memParcelRepo) ListStatusHistory(_ context.Context, parcelID uuid.UUID) ([]entity.StatusHistory, error) {
	return r.history[parcelID], nil
}

func (r *memParcelRepo) GetActiveAssignment(_ context.Context, parcelID uuid.UUID) (*entity.Assignment, error) {
	a, ok := r.assignments[parcelID]
	if !ok || a.Status != entity.AssignmentPending {
		return nil, nil
	}
	return a, nil
}

func (r *memParcelRepo) TransitionStatus(_ context.Context, parcelID uuid.UUID, update parcelpkg.StatusUpdate) (*entity.Parcel, error) {
	p, ok := r.parcels[parcelID]
	if !ok {
		return nil, parcelpkg.ErrParcelNotFound
	}
	if !entity.CanTransition(p.Status, update.Status) {
		return nil, parcelpkg.ErrInvalidTransition
	}
	p.Status = update.Status
	if update.Location != "" {
		p.CurrentLocation = update.Location
	}
	if update.Status == entity.ParcelDelivered {
		now := time.Now()
		p.ActualDeliveryDate = &now
	}
	r.history[parcelID] = append(r.history[parcelID], entity.StatusHistory{
		ParcelID: parcelID, Status: update.Status, Location: update.Location, UpdatedBy: update.UpdatedBy,
	})
	if update.Status.IsTerminal() {
		if a, ok := r.assignments[parcelID]; ok && a.Status == entity.AssignmentPending {
			a.Status = entity.AssignmentCompleted
			if d, ok := r.drivers[a.DriverID]; ok && d.Status == entity.DriverBusy {
				d.Status = entity.DriverAvailable
			}
		}
	}
	return p, nil
}

// fixedPricing returns the same quote for every request.
type fixedPricing struct {
	pricing.Service
	quote pricing.Quote
}

func (f *fixedPricing) Quote(_ context.Context, _ pricing.QuoteRequest) (*pricing.Quote, error) {
	q := f.quote
	return &q, nil
}

func newTestService(repo *memParcelRepo) parcelpkg.Service {
	return NewParcelService(repo, &fixedPricing{quote: pricing.Quote{
		Price: 850.00, DistanceKm: 12.5, EstimatedDeliveryDate: time.Now().AddDate(0, 0, 2),
	}}, nil)
}

func TestCreateParcel(t *testing.T) {
	repo := newMemParcelRepo()
	svc := newTestService(repo)

	sender := uuid.New()
	p, quote, err := svc.CreateParcel(context.Background(), parcelpkg.CreateParcelRequest{
		SenderID:        sender,
		RecipientName:   "Abel T.",
		RecipientPhone:  "+251911000000",
		PickupAddress:   "Bole, Addis Ababa",
		DeliveryAddress: "Piassa, Addis Ababa",
		WeightKg:        2.5,
		ServiceType:     entity.ServiceStandard,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(p.TrackingID) != trackingIDLength {
		t.Fatalf("tracking id %q, want length %d", p.TrackingID, trackingIDLength)
	}
	if p.Price != quote.Price {
		t.Fatalf("price = %.2f, want quote price %.2f", p.Price, quote.Price)
	}
	if p.Status != entity.ParcelCreated {
		t.Fatalf("status = %s, want created", p.Status)
	}
	if p.CurrentLocation != "Bole, Addis Ababa" {
		t.Fatalf("current location = %q, want pickup address", p.CurrentLocation)
	}

	history, _ := repo.ListStatusHistory(context.Background(), p.ID)
	if len(history) != 1 || history[0].Status != entity.ParcelCreated {
		t.Fatalf("initial history = %+v, want single created row", history)
	}
}

func TestCreateParcelRetriesTrackingID(t *testing.T) {
	repo := newMemParcelRepo()
	svc := newTestService(repo)

	repo.collideFirst = 2

	p, _, err := svc.CreateParcel(context.Background(), parcelpkg.CreateParcelRequest{
		SenderID:        uuid.New(),
		PickupAddress:   "A",
		DeliveryAddress: "B",
		WeightKg:        1,
		ServiceType:     entity.ServiceStandard,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if repo.existsChecks != 3 {
		t.Fatalf("existence checks = %d, want 3 (two collisions then success)", repo.existsChecks)
	}
	if len(p.TrackingID) != trackingIDLength {
		t.Fatalf("tracking id %q, want length %d", p.TrackingID, trackingIDLength)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	repo := newMemParcelRepo()
	svc := newTestService(repo)
	admin := parcelpkg.Actor{UserID: uuid.New(), Role: "admin"}

	p, _, err := svc.CreateParcel(context.Background(), parcelpkg.CreateParcelRequest{
		SenderID: uuid.New(), PickupAddress: "A", DeliveryAddress: "B",
		WeightKg: 1, ServiceType: entity.ServiceStandard,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// created -> delivered skips the graph.
	if _, err := svc.UpdateStatus(context.Background(), admin, p.ID, parcelpkg.StatusUpdate{Status: entity.ParcelDelivered}); !errors.Is(err, parcelpkg.ErrInvalidTransition) {
		t.Fatalf("skip err = %v, want ErrInvalidTransition", err)
	}
	if got := len(repo.history[p.ID]); got != 1 {
		t.Fatalf("history rows after rejected transition = %d, want 1", got)
	}

	for _, status := range []entity.ParcelStatus{
		entity.ParcelPickedUp, entity.ParcelInTransit, entity.ParcelOutForDelivery, entity.ParcelDelivered,
	} {
		if _, err := svc.UpdateStatus(context.Background(), admin, p.ID, parcelpkg.StatusUpdate{Status: status}); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	if p.ActualDeliveryDate == nil {
		t.Fatal("delivered parcel missing actual delivery date")
	}

	// delivered is terminal.
	if _, err := svc.UpdateStatus(context.Background(), admin, p.ID, parcelpkg.StatusUpdate{Status: entity.ParcelInTransit}); !errors.Is(err, parcelpkg.ErrInvalidTransition) {
		t.Fatalf("terminal exit err = %v, want ErrInvalidTransition", err)
	}
	if got := len(repo.history[p.ID]); got != 5 {
		t.Fatalf("history rows = %d, want 5", got)
	}
}

func TestUpdateStatusReleasesDriverOnTerminal(t *testing.T) {
	repo := newMemParcelRepo()
	svc := newTestService(repo)
	admin := parcelpkg.Actor{UserID: uuid.New(), Role: "admin"}

	p, _, err := svc.CreateParcel(context.Background(), parcelpkg.CreateParcelRequest{
		SenderID: uuid.New(), PickupAddress: "A", DeliveryAddress: "B",
		WeightKg: 1, ServiceType: entity.ServiceExpress,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	driverID := uuid.New()
	repo.drivers[driverID] = &entity.Driver{ID: driverID, Status: entity.DriverBusy}
	repo.assignments[p.ID] = &entity.Assignment{
		ID: uuid.New(), ParcelID: p.ID, DriverID: driverID, Status: entity.AssignmentPending,
	}
	p.Status = entity.ParcelPickedUp

	// failed is terminal too and must release the driver.
	if _, err := svc.UpdateStatus(context.Background(), admin, p.ID, parcelpkg.StatusUpdate{Status: entity.ParcelFailed}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if repo.assignments[p.ID].Status != entity.AssignmentCompleted {
		t.Fatalf("assignment status = %s, want completed", repo.assignments[p.ID].Status)
	}
	if repo.drivers[driverID].Status != entity.DriverAvailable {
		t.Fatalf("driver status = %s, want available", repo.drivers[driverID].Status)
	}
}

func TestUpdateStatusRequiresAssignment(t *testing.T) {
	repo := newMemParcelRepo()
	svc := newTestService(repo)

	p, _, err := svc.CreateParcel(context.Background(), parcelpkg.CreateParcelRequest{
		SenderID: uuid.New(), PickupAddress: "A", DeliveryAddress: "B",
		WeightKg: 1, ServiceType: entity.ServiceStandard,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	p.Status = entity.ParcelPickedUp

	assigned := uuid.New()
	repo.assignments[p.ID] = &entity.Assignment{ParcelID: p.ID, DriverID: assigned, Status: entity.AssignmentPending}

	stranger := parcelpkg.Actor{UserID: uuid.New(), Role: "driver", DriverID: uuid.New()}
	if _, err := svc.UpdateStatus(context.Background(), stranger, p.ID, parcelpkg.StatusUpdate{Status: entity.ParcelInTransit}); !errors.Is(err, parcelpkg.ErrNotAssigned) {
		t.Fatalf("stranger err = %v, want ErrNotAssigned", err)
	}

	holder := parcelpkg.Actor{UserID: uuid.New(), Role: "driver", DriverID: assigned}
	if _, err := svc.UpdateStatus(context.Background(), holder, p.ID, parcelpkg.StatusUpdate{Status: entity.ParcelInTransit}); err != nil {
		t.Fatalf("holder transition failed: %v", err)
	}
}
