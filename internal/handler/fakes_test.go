package handler

import (
	"context"
	"sync"
	"time"

	"voyago/internal/model"
	"voyago/internal/repository"
)

// fakeBackend implements the catalog, inventory and ledger ports over maps
// so the handlers can be exercised without a database.
type fakeBackend struct {
	mu         sync.Mutex
	voyages    map[uint64]model.Voyage
	activities map[uint64]model.Activity
	slots      map[uint64]model.TimeSlot
	pools      map[string]*fakePool
	rows       map[uint64]model.Reservation
	nextID     uint64
}

type fakePool struct {
	total uint32
	avail uint32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		voyages:    make(map[uint64]model.Voyage),
		activities: make(map[uint64]model.Activity),
		slots:      make(map[uint64]model.TimeSlot),
		pools:      make(map[string]*fakePool),
		rows:       make(map[uint64]model.Reservation),
	}
}

// --- service.Catalog / CatalogBrowser ---

func (f *fakeBackend) VoyageByID(ctx context.Context, id uint64) (*model.Voyage, error) {
	v, ok := f.voyages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (f *fakeBackend) ActivityByID(ctx context.Context, id uint64) (*model.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeBackend) TimeSlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeBackend) ListVoyages(ctx context.Context) ([]model.Voyage, error) {
	out := make([]model.Voyage, 0, len(f.voyages))
	for _, v := range f.voyages {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeBackend) ListActivities(ctx context.Context) ([]model.Activity, error) {
	out := make([]model.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeBackend) SlotsByActivity(ctx context.Context, activityID uint64) ([]model.TimeSlot, error) {
	if _, ok := f.activities[activityID]; !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]model.TimeSlot, 0)
	for _, s := range f.slots {
		if s.ActivityID == activityID {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- service.InventoryStore ---

func (f *fakeBackend) TryConsume(ctx context.Context, key model.PoolKey, amount uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[key.String()]
	if !ok {
		return repository.ErrNotFound
	}
	if p.avail < amount {
		return &repository.CapacityError{Available: p.avail}
	}
	p.avail -= amount
	return nil
}

func (f *fakeBackend) Release(ctx context.Context, key model.PoolKey, amount uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[key.String()]
	if !ok {
		return repository.ErrNotFound
	}
	p.avail += amount
	if p.avail > p.total {
		p.avail = p.total
	}
	return nil
}

func (f *fakeBackend) Read(ctx context.Context, key model.PoolKey) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[key.String()]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return p.avail, nil
}

// --- service.ReservationLedger ---

func (f *fakeBackend) Create(ctx context.Context, res *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now().UTC()
	f.rows[res.ID] = *res
	return nil
}

func (f *fakeBackend) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (f *fakeBackend) MarkCancelled(ctx context.Context, id uint64, actor string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Status != model.ReservationConfirmed {
		return false, nil
	}
	row.Status = model.ReservationCancelled
	row.CancelledAt = &at
	row.CancelledBy = &actor
	f.rows[id] = row
	return true, nil
}

// --- ReservationLister ---

func (f *fakeBackend) ListVoyageReservationsByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	return f.listDetails(userID, model.OfferingVoyage), nil
}

func (f *fakeBackend) ListActivityReservationsByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	return f.listDetails(userID, model.OfferingActivity), nil
}

func (f *fakeBackend) listDetails(userID uint64, offeringType string) []repository.ReservationDetail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.ReservationDetail, 0)
	for _, row := range f.rows {
		if row.UserID == userID && row.OfferingType == offeringType {
			out = append(out, repository.ReservationDetail{Reservation: row})
		}
	}
	return out
}

func (f *fakeBackend) ListByOffering(ctx context.Context, offeringType string, offeringID uint64, status string) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, row := range f.rows {
		if row.OfferingType != offeringType || row.OfferingID != offeringID {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
