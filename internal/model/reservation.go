package model

import "time"

// Reservation lifecycle statuses. A reservation is created CONFIRMED and
// may transition to CANCELLED exactly once; rows are never deleted.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// Who performed a cancellation; stored for the admin audit views.
const (
	CancelledByUser  = "user"
	CancelledByAdmin = "admin"
)

// ClientInfo is the contact payload attached to a reservation. The core
// only requires the three fields to be present; no format validation.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Reservation is one booking consuming capacity from exactly one pool.
//
// Fields:
//  ID              – primary key identifier.
//  OfferingType    – OfferingVoyage or OfferingActivity.
//  OfferingID      – voyage id or activity id.
//  TimeSlotID      – slot id for activity reservations, nil for voyages.
//  UserID          – authenticated user the booking belongs to.
//  PartySize       – number of seats consumed from the pool.
//  Status          – CONFIRMED or CANCELLED.
//  Client          – contact details captured at booking time.
//  DepartureDate   – departure day chosen in the voyage booking form.
//  TotalPriceCents – unit price × party size, frozen at booking time.
//  CancelledAt     – set once when the reservation is cancelled.
//  CancelledBy     – CancelledByUser or CancelledByAdmin.
type Reservation struct {
	ID              uint64     `json:"id"`
	OfferingType    string     `json:"offeringType"`
	OfferingID      uint64     `json:"offeringId"`
	TimeSlotID      *uint64    `json:"timeSlotId,omitempty"`
	UserID          uint64     `json:"userId"`
	PartySize       uint32     `json:"nombrePersonnes"`
	Status          string     `json:"status"`
	Client          ClientInfo `json:"clientInfo"`
	DepartureDate   *time.Time `json:"departureDate,omitempty"`
	TotalPriceCents uint32     `json:"totalPriceCents"`
	CreatedAt       time.Time  `json:"createdAt"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy     *string    `json:"cancelledBy,omitempty"`
}

// Pool returns the capacity pool this reservation consumed from.
func (r *Reservation) Pool() PoolKey {
	if r.OfferingType == OfferingActivity && r.TimeSlotID != nil {
		return TimeSlotPool(r.OfferingID, *r.TimeSlotID)
	}
	return VoyagePool(r.OfferingID)
}

// Cancelled reports whether the reservation has already been cancelled.
func (r *Reservation) Cancelled() bool { return r.Status == ReservationCancelled }
