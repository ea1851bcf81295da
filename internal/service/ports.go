// Package service orchestrates bookings and cancellations over the
// inventory store and the reservation ledger. The services hold the
// booking rules; all counter mutations happen inside the store.
package service

import (
	"context"
	"time"

	"voyago/internal/model"
)

// InventoryStore is the single source of truth for available_spots. The
// check and the decrement inside TryConsume must be one atomic step per
// pool key with respect to all concurrent callers; Release must never push
// a pool above its initial capacity. Implemented over MySQL in the
// repository package.
type InventoryStore interface {
	TryConsume(ctx context.Context, key model.PoolKey, amount uint32) error
	Release(ctx context.Context, key model.PoolKey, amount uint32) error
	Read(ctx context.Context, key model.PoolKey) (uint32, error)
}

// ReservationLedger is the durable, append-only record of reservations.
// MarkCancelled reports whether this call performed the CONFIRMED →
// CANCELLED flip; at most one caller per id ever sees true.
type ReservationLedger interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	MarkCancelled(ctx context.Context, id uint64, actor string, at time.Time) (bool, error)
}

// Catalog supplies read-only offering snapshots for existence and expiry
// checks. The services never mutate catalog metadata.
type Catalog interface {
	VoyageByID(ctx context.Context, id uint64) (*model.Voyage, error)
	ActivityByID(ctx context.Context, id uint64) (*model.Activity, error)
	TimeSlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error)
}

// Notifier emits fire-and-forget domain events after a state change has
// committed. Implementations must not fail the booking flow; delivery
// problems are their own concern.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, res *model.Reservation)
	ReservationCancelled(ctx context.Context, res *model.Reservation)
}
