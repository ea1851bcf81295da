package repository

import (
	"context"
	"database/sql"
	"errors"

	"voyago/internal/model"
)

// InventoryStore is the single owner of the available_spots counters. A
// voyage pool lives on its voyages row; a time-slot pool lives on its
// activity_slots row. Every mutation is a single conditional UPDATE so the
// check and the decrement are one atomic step at the database, so two
// concurrent consumers of the last spot can never both succeed, regardless
// of how many service instances share the database.
type InventoryStore struct {
	db *sql.DB
}

// NewInventoryStore returns an InventoryStore bound to the given database.
func NewInventoryStore(db *sql.DB) *InventoryStore { return &InventoryStore{db: db} }

// TryConsume atomically checks that the pool holds at least amount spots
// and decrements it. When the pool cannot satisfy the request it performs
// no mutation and returns a *CapacityError carrying the current counter.
// ErrNotFound is returned when the pool does not exist.
func (s *InventoryStore) TryConsume(ctx context.Context, key model.PoolKey, amount uint32) error {
	var (
		res sql.Result
		err error
	)
	switch key.Kind {
	case model.PoolTimeSlot:
		const q = `UPDATE activity_slots
		           SET available_spots = available_spots - ?
		           WHERE id = ? AND activity_id = ? AND available_spots >= ?`
		res, err = s.db.ExecContext(ctx, q, amount, key.SlotID, key.OfferingID, amount)
	default:
		const q = `UPDATE voyages
		           SET available_spots = available_spots - ?
		           WHERE id = ? AND available_spots >= ?`
		res, err = s.db.ExecContext(ctx, q, amount, key.OfferingID, amount)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// No row matched: either the pool is missing or it holds fewer spots
	// than requested. Read back to tell the two apart; the value is only
	// informational for the rejection payload.
	avail, err := s.Read(ctx, key)
	if err != nil {
		return err
	}
	return &CapacityError{Available: avail}
}

// Release atomically returns amount spots to the pool, capped at the
// pool's initial capacity so a stray double release can never manufacture
// phantom spots. Releasing into a full pool is a no-op, not an error.
func (s *InventoryStore) Release(ctx context.Context, key model.PoolKey, amount uint32) error {
	var (
		res sql.Result
		err error
	)
	switch key.Kind {
	case model.PoolTimeSlot:
		const q = `UPDATE activity_slots
		           SET available_spots = LEAST(available_spots + ?, total_spots)
		           WHERE id = ? AND activity_id = ?`
		res, err = s.db.ExecContext(ctx, q, amount, key.SlotID, key.OfferingID)
	default:
		const q = `UPDATE voyages
		           SET available_spots = LEAST(available_spots + ?, total_spots)
		           WHERE id = ?`
		res, err = s.db.ExecContext(ctx, q, amount, key.OfferingID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports zero affected rows both for a missing pool and for
		// an UPDATE that left the value unchanged (already full pool), so
		// confirm existence before declaring the release lost.
		if _, rerr := s.Read(ctx, key); rerr != nil {
			return rerr
		}
	}
	return nil
}

// Read returns a snapshot of the pool's remaining spots. The value is for
// display only; booking decisions are made inside TryConsume, never by
// comparing a previously read snapshot.
func (s *InventoryStore) Read(ctx context.Context, key model.PoolKey) (uint32, error) {
	var (
		avail uint32
		err   error
	)
	switch key.Kind {
	case model.PoolTimeSlot:
		const q = `SELECT available_spots FROM activity_slots WHERE id = ? AND activity_id = ?`
		err = s.db.QueryRowContext(ctx, q, key.SlotID, key.OfferingID).Scan(&avail)
	default:
		const q = `SELECT available_spots FROM voyages WHERE id = ?`
		err = s.db.QueryRowContext(ctx, q, key.OfferingID).Scan(&avail)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return avail, nil
}
