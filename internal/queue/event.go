// Package queue defines the reservation event payloads exchanged over the
// message broker, the publisher that emits them and the background
// consumer that records them.
package queue

// Queue names. One durable queue per event kind.
const (
	ConfirmedQueue = "reservation.confirmed"
	CancelledQueue = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is confirmed or
// cancelled. It carries enough for downstream consumers (confirmation
// mail, analytics, audit log) to act without querying the database.
// Whether an admin-initiated cancellation notifies the customer is the
// consumer's policy call; CancelledBy gives it the information to decide.
type ReservationEvent struct {
	ReservationID   uint64  `json:"reservation_id"`
	UserID          uint64  `json:"user_id"`
	OfferingType    string  `json:"offering_type"`
	OfferingID      uint64  `json:"offering_id"`
	TimeSlotID      *uint64 `json:"time_slot_id,omitempty"`
	PoolKey         string  `json:"pool_key"`
	PartySize       uint32  `json:"party_size"`
	TotalPriceCents uint32  `json:"total_price_cents"`
	ClientName      string  `json:"client_name"`
	ClientEmail     string  `json:"client_email"`
	Status          string  `json:"status"`
	CancelledBy     string  `json:"cancelled_by,omitempty"`
	OccurredAt      string  `json:"occurred_at"`
}
