package service

import (
	"context"
	"fmt"
	"time"

	"voyago/internal/model"
	"voyago/internal/repository"
)

// releaseAttempts bounds the retries of the capacity release after the
// status flip has committed. Once the flip succeeds no other caller will
// ever release for the same reservation, so retrying here is always safe.
const releaseAttempts = 3

// Actor identifies who is asking for a cancellation. Admin actors bypass
// the ownership check; the distinction is also recorded on the ledger row
// for the back-office audit views.
type Actor struct {
	UserID uint64
	Admin  bool
}

// CancellationService revokes confirmed reservations and returns their
// capacity to the pool, exactly once per reservation. Cancelling an
// already-cancelled reservation succeeds without any further effect.
type CancellationService struct {
	inventory InventoryStore
	ledger    ReservationLedger
	notifier  Notifier
	now       func() time.Time
}

// NewCancellationService constructs a CancellationService. notifier may be
// nil when no broker is configured.
func NewCancellationService(inventory InventoryStore, ledger ReservationLedger, notifier Notifier) *CancellationService {
	if inventory == nil || ledger == nil {
		panic("nil dependency passed to NewCancellationService")
	}
	return &CancellationService{
		inventory: inventory,
		ledger:    ledger,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Cancel transitions a reservation to CANCELLED and releases its party
// size back to the pool. The conditional status flip in the ledger is the
// idempotency gate: only the caller that performs the flip executes the
// release, so repeating the call can never restore capacity twice.
func (s *CancellationService) Cancel(ctx context.Context, reservationID uint64, actor Actor) (*model.Reservation, error) {
	res, err := s.ledger.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && res.UserID != actor.UserID {
		return nil, repository.ErrForbidden
	}
	if res.Cancelled() {
		return res, nil
	}
	by := model.CancelledByUser
	if actor.Admin {
		by = model.CancelledByAdmin
	}
	at := s.now()
	flipped, err := s.ledger.MarkCancelled(ctx, reservationID, by, at)
	if err != nil {
		return nil, err
	}
	if !flipped {
		// Lost the flip to a concurrent cancel; that caller owns the
		// release. Reload so the response carries the final state.
		return s.ledger.GetByID(ctx, reservationID)
	}
	res.Status = model.ReservationCancelled
	res.CancelledAt = &at
	res.CancelledBy = &by
	var relErr error
	for attempt := 0; attempt < releaseAttempts; attempt++ {
		if relErr = s.inventory.Release(ctx, res.Pool(), res.PartySize); relErr == nil {
			break
		}
	}
	if relErr != nil {
		// The flip is durable but the pool still owes the seats; surface
		// the failure instead of pretending the capacity came back.
		return nil, fmt.Errorf("release %d spots on %s: %w", res.PartySize, res.Pool(), relErr)
	}
	if s.notifier != nil {
		s.notifier.ReservationCancelled(ctx, res)
	}
	return res, nil
}
