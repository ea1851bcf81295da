package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voyago/internal/model"
	"voyago/internal/repository"
)

// fixedNow is the reference instant every test clock returns.
var fixedNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return fixedNow }

type bookingEnv struct {
	catalog   *memCatalog
	inventory *memInventory
	ledger    *memLedger
	notifier  *countingNotifier
	svc       *ReservationService
}

func newBookingEnv() *bookingEnv {
	env := &bookingEnv{
		catalog:   newMemCatalog(),
		inventory: newMemInventory(),
		ledger:    newMemLedger(),
		notifier:  &countingNotifier{},
	}
	env.svc = NewReservationService(env.catalog, env.inventory, env.ledger, env.notifier)
	env.svc.now = testClock
	return env
}

// addVoyage seeds a bookable voyage departing well after fixedNow.
func (env *bookingEnv) addVoyage(id uint64, priceCents, maxParty, total, avail uint32) {
	env.catalog.voyages[id] = model.Voyage{
		ID:              id,
		Name:            "Circuit Atlas",
		Destination:     "Maroc",
		PriceCents:      priceCents,
		MaxParticipants: maxParty,
		TotalSpots:      total,
		AvailableSpots:  avail,
		DepartureDate:   fixedNow.AddDate(0, 1, 0),
	}
	env.inventory.addPool(model.VoyagePool(id), total, avail)
}

func (env *bookingEnv) addActivity(id uint64, priceCents, maxParty uint32) {
	env.catalog.activities[id] = model.Activity{
		ID:              id,
		Name:            "Quad dans le desert",
		Location:        "Merzouga",
		PriceCents:      priceCents,
		MaxParticipants: maxParty,
	}
}

func (env *bookingEnv) addSlot(id, activityID uint64, total, avail uint32) {
	env.catalog.slots[id] = model.TimeSlot{
		ID:         id,
		ActivityID: activityID,
		SlotDate:   fixedNow.AddDate(0, 0, 7),
		StartTime:  "09:00",
		EndTime:    "11:00",
		TotalSpots: total,
	}
	env.inventory.addPool(model.TimeSlotPool(activityID, id), total, avail)
}

func validClient() model.ClientInfo {
	return model.ClientInfo{Name: "Marie Dupont", Email: "marie@example.com", Phone: "+33612345678"}
}

func TestReserveVoyage(t *testing.T) {
	env := newBookingEnv()
	env.addVoyage(1, 50000, 8, 10, 10)

	res, err := env.svc.ReserveVoyage(context.Background(), VoyageBooking{
		VoyageID:  1,
		UserID:    7,
		PartySize: 3,
		Client:    validClient(),
	})
	if err != nil {
		t.Fatalf("ReserveVoyage returned error: %v", err)
	}
	if res.ID == 0 {
		t.Errorf("reservation ID = 0, want assigned")
	}
	if res.Status != model.ReservationConfirmed {
		t.Errorf("Status = %q, want %q", res.Status, model.ReservationConfirmed)
	}
	if res.TotalPriceCents != 150000 {
		t.Errorf("TotalPriceCents = %d, want 150000", res.TotalPriceCents)
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 7 {
		t.Errorf("available spots after booking = %d, want 7", got)
	}
	if env.ledger.count() != 1 {
		t.Errorf("ledger rows = %d, want 1", env.ledger.count())
	}
	if env.notifier.confirmed != 1 {
		t.Errorf("confirmed events = %d, want 1", env.notifier.confirmed)
	}
}

func TestReserveVoyageInsufficientCapacity(t *testing.T) {
	env := newBookingEnv()
	env.addVoyage(1, 50000, 8, 10, 3)

	_, err := env.svc.ReserveVoyage(context.Background(), VoyageBooking{
		VoyageID:  1,
		UserID:    7,
		PartySize: 5,
		Client:    validClient(),
	})
	var capErr *repository.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want CapacityError", err)
	}
	if capErr.Available != 3 {
		t.Errorf("CapacityError.Available = %d, want 3", capErr.Available)
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 3 {
		t.Errorf("available spots after rejection = %d, want 3 (unchanged)", got)
	}
	if env.ledger.count() != 0 {
		t.Errorf("ledger rows after rejection = %d, want 0", env.ledger.count())
	}
}

func TestReserveVoyageExpired(t *testing.T) {
	env := newBookingEnv()
	env.addVoyage(1, 50000, 8, 10, 10)
	v := env.catalog.voyages[1]
	v.DepartureDate = fixedNow.AddDate(0, 0, -2)
	env.catalog.voyages[1] = v

	_, err := env.svc.ReserveVoyage(context.Background(), VoyageBooking{
		VoyageID:  1,
		UserID:    7,
		PartySize: 1,
		Client:    validClient(),
	})
	if !errors.Is(err, ErrOfferingExpired) {
		t.Fatalf("error = %v, want ErrOfferingExpired", err)
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 10 {
		t.Errorf("available spots = %d, want 10 (unchanged)", got)
	}
}

func TestReserveVoyageUnknown(t *testing.T) {
	env := newBookingEnv()

	_, err := env.svc.ReserveVoyage(context.Background(), VoyageBooking{
		VoyageID:  99,
		UserID:    7,
		PartySize: 1,
		Client:    validClient(),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestReserveVoyageValidation(t *testing.T) {
	env := newBookingEnv()
	env.addVoyage(1, 50000, 4, 10, 10)

	cases := []struct {
		name string
		req  VoyageBooking
	}{
		{"zero party", VoyageBooking{VoyageID: 1, UserID: 7, PartySize: 0, Client: validClient()}},
		{"missing name", VoyageBooking{VoyageID: 1, UserID: 7, PartySize: 2, Client: model.ClientInfo{Email: "a@b.c", Phone: "1"}}},
		{"missing email", VoyageBooking{VoyageID: 1, UserID: 7, PartySize: 2, Client: model.ClientInfo{Name: "A", Phone: "1"}}},
		{"missing phone", VoyageBooking{VoyageID: 1, UserID: 7, PartySize: 2, Client: model.ClientInfo{Name: "A", Email: "a@b.c"}}},
		{"blank name", VoyageBooking{VoyageID: 1, UserID: 7, PartySize: 2, Client: model.ClientInfo{Name: "   ", Email: "a@b.c", Phone: "1"}}},
		{"party above max", VoyageBooking{VoyageID: 1, UserID: 7, PartySize: 5, Client: validClient()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.ReserveVoyage(context.Background(), tc.req)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 10 {
		t.Errorf("available spots after rejections = %d, want 10", got)
	}
	if env.ledger.count() != 0 {
		t.Errorf("ledger rows after rejections = %d, want 0", env.ledger.count())
	}
}

func TestReserveActivity(t *testing.T) {
	env := newBookingEnv()
	env.addActivity(2, 8000, 6)
	env.addSlot(10, 2, 12, 12)
	env.addSlot(11, 2, 12, 12)

	res, err := env.svc.ReserveActivity(context.Background(), ActivityBooking{
		ActivityID: 2,
		TimeSlotID: 10,
		UserID:     7,
		PartySize:  4,
		Client:     validClient(),
	})
	if err != nil {
		t.Fatalf("ReserveActivity returned error: %v", err)
	}
	if res.OfferingType != model.OfferingActivity {
		t.Errorf("OfferingType = %q, want %q", res.OfferingType, model.OfferingActivity)
	}
	if res.TimeSlotID == nil || *res.TimeSlotID != 10 {
		t.Errorf("TimeSlotID = %v, want 10", res.TimeSlotID)
	}
	if res.TotalPriceCents != 32000 {
		t.Errorf("TotalPriceCents = %d, want 32000", res.TotalPriceCents)
	}
	if got := env.inventory.available(model.TimeSlotPool(2, 10)); got != 8 {
		t.Errorf("booked slot available = %d, want 8", got)
	}
	// The sibling slot's counter is independent.
	if got := env.inventory.available(model.TimeSlotPool(2, 11)); got != 12 {
		t.Errorf("sibling slot available = %d, want 12", got)
	}
}

func TestReserveActivitySlotMismatch(t *testing.T) {
	env := newBookingEnv()
	env.addActivity(2, 8000, 6)
	env.addActivity(3, 9000, 6)
	env.addSlot(10, 3, 12, 12) // slot belongs to activity 3

	_, err := env.svc.ReserveActivity(context.Background(), ActivityBooking{
		ActivityID: 2,
		TimeSlotID: 10,
		UserID:     7,
		PartySize:  1,
		Client:     validClient(),
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got := env.inventory.available(model.TimeSlotPool(3, 10)); got != 12 {
		t.Errorf("slot available = %d, want 12 (unchanged)", got)
	}
}

func TestReserveActivitySlotExpired(t *testing.T) {
	env := newBookingEnv()
	env.addActivity(2, 8000, 6)
	env.addSlot(10, 2, 12, 12)
	s := env.catalog.slots[10]
	s.SlotDate = fixedNow.AddDate(0, 0, -1)
	env.catalog.slots[10] = s

	_, err := env.svc.ReserveActivity(context.Background(), ActivityBooking{
		ActivityID: 2,
		TimeSlotID: 10,
		UserID:     7,
		PartySize:  1,
		Client:     validClient(),
	})
	if !errors.Is(err, ErrOfferingExpired) {
		t.Fatalf("error = %v, want ErrOfferingExpired", err)
	}
}

func TestReserveActivityMissingSlotID(t *testing.T) {
	env := newBookingEnv()
	env.addActivity(2, 8000, 6)

	_, err := env.svc.ReserveActivity(context.Background(), ActivityBooking{
		ActivityID: 2,
		UserID:     7,
		PartySize:  1,
		Client:     validClient(),
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestLedgerFailureRestoresCapacity(t *testing.T) {
	env := newBookingEnv()
	env.addVoyage(1, 50000, 8, 10, 10)
	env.ledger.failCreates = ledgerAttempts // exhaust every retry

	_, err := env.svc.ReserveVoyage(context.Background(), VoyageBooking{
		VoyageID:  1,
		UserID:    7,
		PartySize: 4,
		Client:    validClient(),
	})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("error = %v, want wrapped ErrConflict", err)
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 10 {
		t.Errorf("available spots after compensation = %d, want 10", got)
	}
	if env.ledger.count() != 0 {
		t.Errorf("ledger rows = %d, want 0", env.ledger.count())
	}
	if env.notifier.confirmed != 0 {
		t.Errorf("confirmed events = %d, want 0", env.notifier.confirmed)
	}
}

func TestLedgerRetrySucceeds(t *testing.T) {
	env := newBookingEnv()
	env.addVoyage(1, 50000, 8, 10, 10)
	env.ledger.failCreates = ledgerAttempts - 1 // recovers within the retry limit

	res, err := env.svc.ReserveVoyage(context.Background(), VoyageBooking{
		VoyageID:  1,
		UserID:    7,
		PartySize: 2,
		Client:    validClient(),
	})
	if err != nil {
		t.Fatalf("ReserveVoyage returned error: %v", err)
	}
	if res.ID == 0 {
		t.Errorf("reservation ID = 0, want assigned")
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 8 {
		t.Errorf("available spots = %d, want 8", got)
	}
}

func TestConcurrentBookingNoOversell(t *testing.T) {
	env := newBookingEnv()
	const total = 10
	env.addVoyage(1, 50000, 8, total, total)

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.ReserveVoyage(context.Background(), VoyageBooking{
				VoyageID:  1,
				UserID:    uint64(i + 1),
				PartySize: 1,
				Client:    validClient(),
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var capErr *repository.CapacityError
		if !errors.As(err, &capErr) {
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}
	if successes != total {
		t.Errorf("successful bookings = %d, want %d", successes, total)
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 0 {
		t.Errorf("available spots = %d, want 0", got)
	}
	if env.ledger.count() != total {
		t.Errorf("ledger rows = %d, want %d", env.ledger.count(), total)
	}
}

func TestConcurrentPartyContention(t *testing.T) {
	// Two party-of-two requests race for three remaining spots: exactly one
	// can win, and the loser must see the single leftover spot.
	env := newBookingEnv()
	env.addVoyage(1, 50000, 8, 10, 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.ReserveVoyage(context.Background(), VoyageBooking{
				VoyageID:  1,
				UserID:    uint64(i + 1),
				PartySize: 2,
				Client:    validClient(),
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var capErr *repository.CapacityError
		if !errors.As(err, &capErr) {
			t.Fatalf("unexpected error: %v", err)
		}
		if capErr.Available != 1 {
			t.Errorf("CapacityError.Available = %d, want 1", capErr.Available)
		}
	}
	if successes != 1 {
		t.Errorf("successful bookings = %d, want 1", successes)
	}
	if got := env.inventory.available(model.VoyagePool(1)); got != 1 {
		t.Errorf("available spots = %d, want 1", got)
	}
}
