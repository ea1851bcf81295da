package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"voyago/internal/model"
	"voyago/internal/repository"
)

// ledgerAttempts bounds the retries of the ledger append after a
// successful capacity consumption before the consumption is compensated.
const ledgerAttempts = 3

// ReservationService turns a validated booking request into a confirmed
// ledger entry, consuming exactly one unit of capacity per requested seat.
// On any rejection path nothing is mutated; on the rare ledger failure the
// consumed capacity is released back before the error surfaces.
type ReservationService struct {
	catalog   Catalog
	inventory InventoryStore
	ledger    ReservationLedger
	notifier  Notifier
	now       func() time.Time
}

// NewReservationService constructs a ReservationService. notifier may be
// nil when no broker is configured.
func NewReservationService(catalog Catalog, inventory InventoryStore, ledger ReservationLedger, notifier Notifier) *ReservationService {
	if catalog == nil || inventory == nil || ledger == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		catalog:   catalog,
		inventory: inventory,
		ledger:    ledger,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// VoyageBooking is a request to reserve seats on a voyage.
type VoyageBooking struct {
	VoyageID      uint64
	UserID        uint64
	PartySize     uint32
	DepartureDate *time.Time // echoed from the booking form, audit only
	Client        model.ClientInfo
}

// ActivityBooking is a request to reserve seats on one activity time slot.
type ActivityBooking struct {
	ActivityID uint64
	TimeSlotID uint64
	UserID     uint64
	PartySize  uint32
	Client     model.ClientInfo
}

// ReserveVoyage books partySize seats on a voyage. Order of operations:
// input validation, catalog existence + expiry check, atomic consume,
// ledger append. A *repository.CapacityError passes through untouched so
// the handler can report the remaining spots.
func (s *ReservationService) ReserveVoyage(ctx context.Context, req VoyageBooking) (*model.Reservation, error) {
	if err := validateParty(req.PartySize, req.Client); err != nil {
		return nil, err
	}
	v, err := s.catalog.VoyageByID(ctx, req.VoyageID)
	if err != nil {
		return nil, err
	}
	if v.Expired(s.now()) {
		return nil, ErrOfferingExpired
	}
	if req.PartySize > v.MaxParticipants {
		return nil, validationf(fmt.Sprintf("party size %d exceeds the limit of %d per booking", req.PartySize, v.MaxParticipants))
	}
	res := &model.Reservation{
		OfferingType:    model.OfferingVoyage,
		OfferingID:      v.ID,
		UserID:          req.UserID,
		PartySize:       req.PartySize,
		Status:          model.ReservationConfirmed,
		Client:          trimClient(req.Client),
		DepartureDate:   req.DepartureDate,
		TotalPriceCents: v.PriceCents * req.PartySize,
	}
	return s.commit(ctx, model.VoyagePool(v.ID), res)
}

// ReserveActivity books partySize seats on a time slot. The slot must
// belong to the requested activity; a mismatch is a validation error, not
// a capacity one.
func (s *ReservationService) ReserveActivity(ctx context.Context, req ActivityBooking) (*model.Reservation, error) {
	if err := validateParty(req.PartySize, req.Client); err != nil {
		return nil, err
	}
	if req.TimeSlotID == 0 {
		return nil, validationf("timeSlotId is required for activity reservations")
	}
	a, err := s.catalog.ActivityByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}
	slot, err := s.catalog.TimeSlotByID(ctx, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if slot.ActivityID != a.ID {
		return nil, validationf("time slot does not belong to the requested activity")
	}
	if slot.Expired(s.now()) {
		return nil, ErrOfferingExpired
	}
	if req.PartySize > a.MaxParticipants {
		return nil, validationf(fmt.Sprintf("party size %d exceeds the limit of %d per booking", req.PartySize, a.MaxParticipants))
	}
	slotID := slot.ID
	res := &model.Reservation{
		OfferingType:    model.OfferingActivity,
		OfferingID:      a.ID,
		TimeSlotID:      &slotID,
		UserID:          req.UserID,
		PartySize:       req.PartySize,
		Status:          model.ReservationConfirmed,
		Client:          trimClient(req.Client),
		TotalPriceCents: a.PriceCents * req.PartySize,
	}
	return s.commit(ctx, model.TimeSlotPool(a.ID, slot.ID), res)
}

// commit performs the consume-then-append pair. The two are treated as one
// logical unit: if the append cannot complete after bounded retries, the
// consumed capacity is released back before the error is returned, so the
// conservation invariant holds on every exit path.
func (s *ReservationService) commit(ctx context.Context, key model.PoolKey, res *model.Reservation) (*model.Reservation, error) {
	if err := s.inventory.TryConsume(ctx, key, res.PartySize); err != nil {
		return nil, err
	}
	var createErr error
	for attempt := 0; attempt < ledgerAttempts; attempt++ {
		if createErr = s.ledger.Create(ctx, res); createErr == nil {
			break
		}
	}
	if createErr != nil {
		s.compensate(ctx, key, res.PartySize)
		return nil, fmt.Errorf("record reservation %s: %w", key, repository.ErrConflict)
	}
	if s.notifier != nil {
		s.notifier.ReservationConfirmed(ctx, res)
	}
	return res, nil
}

// compensate returns consumed capacity after a failed ledger append.
// Release is always safe to retry: the store caps the counter at the
// pool's initial capacity.
func (s *ReservationService) compensate(ctx context.Context, key model.PoolKey, amount uint32) {
	var err error
	for attempt := 0; attempt < ledgerAttempts; attempt++ {
		if err = s.inventory.Release(ctx, key, amount); err == nil {
			return
		}
	}
	log.Printf("reservation: failed to release %d spots on %s after ledger error: %v", amount, key, err)
}

// validateParty checks the shared input constraints: at least one seat and
// all three contact fields present.
func validateParty(partySize uint32, client model.ClientInfo) error {
	if partySize < 1 {
		return validationf("nombrePersonnes must be at least 1")
	}
	c := trimClient(client)
	switch {
	case c.Name == "":
		return validationf("client name is required")
	case c.Email == "":
		return validationf("client email is required")
	case c.Phone == "":
		return validationf("client phone is required")
	}
	return nil
}

func trimClient(c model.ClientInfo) model.ClientInfo {
	return model.ClientInfo{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}
