package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"voyago/internal/model"
	"voyago/internal/repository"
)

// memPool is one capacity counter of the in-memory inventory.
type memPool struct {
	total uint32
	avail uint32
}

// memInventory implements InventoryStore over a mutex-guarded map, with the
// same semantics as the MySQL store: atomic check-and-decrement, release
// capped at the initial capacity.
type memInventory struct {
	mu          sync.Mutex
	pools       map[string]*memPool
	releases    int // total successful Release calls
	failRelease int // fail this many Release calls before succeeding
}

func newMemInventory() *memInventory {
	return &memInventory{pools: make(map[string]*memPool)}
}

func (m *memInventory) addPool(key model.PoolKey, total, avail uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pools[key.String()] = &memPool{total: total, avail: avail}
}

func (m *memInventory) TryConsume(ctx context.Context, key model.PoolKey, amount uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[key.String()]
	if !ok {
		return repository.ErrNotFound
	}
	if p.avail < amount {
		return &repository.CapacityError{Available: p.avail}
	}
	p.avail -= amount
	return nil
}

func (m *memInventory) Release(ctx context.Context, key model.PoolKey, amount uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRelease > 0 {
		m.failRelease--
		return errors.New("transient release failure")
	}
	p, ok := m.pools[key.String()]
	if !ok {
		return repository.ErrNotFound
	}
	p.avail += amount
	if p.avail > p.total {
		p.avail = p.total
	}
	m.releases++
	return nil
}

func (m *memInventory) Read(ctx context.Context, key model.PoolKey) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[key.String()]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return p.avail, nil
}

func (m *memInventory) available(key model.PoolKey) uint32 {
	v, _ := m.Read(context.Background(), key)
	return v
}

// memLedger implements ReservationLedger in memory.
type memLedger struct {
	mu          sync.Mutex
	rows        map[uint64]model.Reservation
	nextID      uint64
	failCreates int // fail this many Create calls before succeeding
}

func newMemLedger() *memLedger {
	return &memLedger{rows: make(map[uint64]model.Reservation)}
}

func (m *memLedger) Create(ctx context.Context, res *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreates > 0 {
		m.failCreates--
		return errors.New("ledger write failure")
	}
	m.nextID++
	res.ID = m.nextID
	res.CreatedAt = time.Now().UTC()
	m.rows[res.ID] = *res
	return nil
}

func (m *memLedger) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (m *memLedger) MarkCancelled(ctx context.Context, id uint64, actor string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != model.ReservationConfirmed {
		return false, nil
	}
	row.Status = model.ReservationCancelled
	row.CancelledAt = &at
	row.CancelledBy = &actor
	m.rows[id] = row
	return true, nil
}

func (m *memLedger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memCatalog implements Catalog over fixed maps.
type memCatalog struct {
	voyages    map[uint64]model.Voyage
	activities map[uint64]model.Activity
	slots      map[uint64]model.TimeSlot
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		voyages:    make(map[uint64]model.Voyage),
		activities: make(map[uint64]model.Activity),
		slots:      make(map[uint64]model.TimeSlot),
	}
}

func (m *memCatalog) VoyageByID(ctx context.Context, id uint64) (*model.Voyage, error) {
	v, ok := m.voyages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (m *memCatalog) ActivityByID(ctx context.Context, id uint64) (*model.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memCatalog) TimeSlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

// countingNotifier records event deliveries.
type countingNotifier struct {
	mu        sync.Mutex
	confirmed int
	cancelled int
}

func (n *countingNotifier) ReservationConfirmed(ctx context.Context, res *model.Reservation) {
	n.mu.Lock()
	n.confirmed++
	n.mu.Unlock()
}

func (n *countingNotifier) ReservationCancelled(ctx context.Context, res *model.Reservation) {
	n.mu.Lock()
	n.cancelled++
	n.mu.Unlock()
}
