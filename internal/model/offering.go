package model

import "time"

// Offering type discriminators as they appear on the wire and in the
// reservations table. The French spelling for activities is kept because
// the public API contract uses it.
const (
	OfferingVoyage   = "voyage"
	OfferingActivity = "activite"
)

// Voyage is a multi-day package with a single capacity counter on the
// offering itself. TotalSpots is the initial capacity and never changes;
// AvailableSpots is the live counter mutated only by the inventory store.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the package.
//  Destination     – destination label.
//  PriceCents      – price per person in cents.
//  MaxParticipants – per-booking cap on party size.
//  TotalSpots      – initial capacity, used as the release ceiling.
//  AvailableSpots  – remaining capacity.
//  DepartureDate   – departure day; past departures are not bookable.
type Voyage struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Destination     string    `json:"destination"`
	Description     string    `json:"description"`
	PriceCents      uint32    `json:"priceCents"`
	MaxParticipants uint32    `json:"maxParticipants"`
	TotalSpots      uint32    `json:"totalSpots"`
	AvailableSpots  uint32    `json:"availableSpots"`
	DepartureDate   time.Time `json:"departureDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Expired reports whether the voyage can no longer be booked at the given
// instant. A voyage remains bookable through the end of its departure day.
func (v *Voyage) Expired(now time.Time) bool {
	return !now.Before(dayAfter(v.DepartureDate))
}

// Activity is a locally offered experience. Capacity is not tracked on the
// activity itself; each of its time slots carries an independent counter.
type Activity struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	PriceCents      uint32    `json:"priceCents"`
	MaxParticipants uint32    `json:"maxParticipants"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// dayAfter returns midnight UTC of the day following t's calendar day.
func dayAfter(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}
