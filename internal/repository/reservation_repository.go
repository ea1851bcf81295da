package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voyago/internal/model"
)

// ReservationRepo is the reservation ledger: durable, append-only storage
// of bookings. Rows are inserted once by the reservation service and
// mutated once, ever, by the cancellation service (status flip plus the
// cancellation audit columns). Rows are never deleted so cancelled
// reservations stay visible in the admin views.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create appends a confirmed reservation to the ledger and populates the
// generated ID and the stored creation timestamp on the given record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (offering_type, offering_id, time_slot_id, user_id, party_size, status,
	            client_name, client_email, client_phone, departure_date, total_price_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.OfferingType, res.OfferingID, res.TimeSlotID, res.UserID, res.PartySize, res.Status,
		res.Client.Name, res.Client.Email, res.Client.Phone, res.DepartureDate, res.TotalPriceCents,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Read back the row to pick up the DB-side created_at default.
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// GetByID loads one reservation. Returns ErrNotFound when no row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, offering_type, offering_id, time_slot_id, user_id, party_size, status,
	                  client_name, client_email, client_phone, departure_date, total_price_cents,
	                  created_at, cancelled_at, cancelled_by
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	var slotID sql.NullInt64
	var depDate, cancelledAt sql.NullTime
	var cancelledBy sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.OfferingType, &res.OfferingID, &slotID, &res.UserID, &res.PartySize, &res.Status,
		&res.Client.Name, &res.Client.Email, &res.Client.Phone, &depDate, &res.TotalPriceCents,
		&res.CreatedAt, &cancelledAt, &cancelledBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if slotID.Valid {
		v := uint64(slotID.Int64)
		res.TimeSlotID = &v
	}
	if depDate.Valid {
		d := depDate.Time
		res.DepartureDate = &d
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	if cancelledBy.Valid {
		by := cancelledBy.String
		res.CancelledBy = &by
	}
	return &res, nil
}

// MarkCancelled flips a CONFIRMED reservation to CANCELLED and records who
// cancelled it and when. The WHERE status guard makes the flip a single
// atomic step: exactly one caller ever observes flipped == true for a given
// id, which is what guarantees the capacity release happens exactly once.
// A false return with a nil error means the reservation was already
// cancelled (or does not exist; callers load the row first).
func (r *ReservationRepo) MarkCancelled(ctx context.Context, id uint64, actor string, at time.Time) (bool, error) {
	const q = `UPDATE reservations
	           SET status = ?, cancelled_at = ?, cancelled_by = ?
	           WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q,
		model.ReservationCancelled, at, actor, id, model.ReservationConfirmed)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReservationDetail pairs a ledger row with the offering's display name for
// the listing endpoints.
type ReservationDetail struct {
	model.Reservation
	OfferingName string     `json:"offeringName"`
	SlotDate     *time.Time `json:"slotDate,omitempty"`
	SlotStart    *string    `json:"slotStart,omitempty"`
}

// ListVoyageReservationsByUser returns the user's voyage reservations,
// newest first, with the voyage name joined in for display.
func (r *ReservationRepo) ListVoyageReservationsByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.offering_type, r.offering_id, r.time_slot_id, r.user_id, r.party_size,
	                  r.status, r.client_name, r.client_email, r.client_phone, r.departure_date,
	                  r.total_price_cents, r.created_at, r.cancelled_at, r.cancelled_by,
	                  v.name
	           FROM reservations r
	           JOIN voyages v ON v.id = r.offering_id
	           WHERE r.user_id = ? AND r.offering_type = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, model.OfferingVoyage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows, false)
}

// ListActivityReservationsByUser returns the user's activity reservations,
// newest first, with the activity name and slot timing joined in.
func (r *ReservationRepo) ListActivityReservationsByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.offering_type, r.offering_id, r.time_slot_id, r.user_id, r.party_size,
	                  r.status, r.client_name, r.client_email, r.client_phone, r.departure_date,
	                  r.total_price_cents, r.created_at, r.cancelled_at, r.cancelled_by,
	                  a.name, s.slot_date, s.start_time
	           FROM reservations r
	           JOIN activities a ON a.id = r.offering_id
	           LEFT JOIN activity_slots s ON s.id = r.time_slot_id
	           WHERE r.user_id = ? AND r.offering_type = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, model.OfferingActivity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows, true)
}

// ListByOffering returns all reservations against one offering, optionally
// filtered by status. Used by the admin back office to audit a pool.
func (r *ReservationRepo) ListByOffering(ctx context.Context, offeringType string, offeringID uint64, status string) ([]model.Reservation, error) {
	q := `SELECT id, offering_type, offering_id, time_slot_id, user_id, party_size, status,
	             client_name, client_email, client_phone, departure_date, total_price_cents,
	             created_at, cancelled_at, cancelled_by
	      FROM reservations WHERE offering_type = ? AND offering_id = ?`
	args := []interface{}{offeringType, offeringID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// scanReservation reads one ledger row from a rows cursor positioned on it.
func scanReservation(rows *sql.Rows) (*model.Reservation, error) {
	var res model.Reservation
	var slotID sql.NullInt64
	var depDate, cancelledAt sql.NullTime
	var cancelledBy sql.NullString
	if err := rows.Scan(
		&res.ID, &res.OfferingType, &res.OfferingID, &slotID, &res.UserID, &res.PartySize, &res.Status,
		&res.Client.Name, &res.Client.Email, &res.Client.Phone, &depDate, &res.TotalPriceCents,
		&res.CreatedAt, &cancelledAt, &cancelledBy,
	); err != nil {
		return nil, err
	}
	if slotID.Valid {
		v := uint64(slotID.Int64)
		res.TimeSlotID = &v
	}
	if depDate.Valid {
		d := depDate.Time
		res.DepartureDate = &d
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	if cancelledBy.Valid {
		by := cancelledBy.String
		res.CancelledBy = &by
	}
	return &res, nil
}

// scanDetails collects listing rows. withSlot selects the activity shape
// (two extra slot columns) over the voyage shape (name only).
func scanDetails(rows *sql.Rows, withSlot bool) ([]ReservationDetail, error) {
	out := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var slotID sql.NullInt64
		var depDate, cancelledAt sql.NullTime
		var cancelledBy sql.NullString
		var slotDate sql.NullTime
		var slotStart sql.NullString
		dest := []interface{}{
			&d.ID, &d.OfferingType, &d.OfferingID, &slotID, &d.UserID, &d.PartySize,
			&d.Status, &d.Client.Name, &d.Client.Email, &d.Client.Phone, &depDate,
			&d.TotalPriceCents, &d.CreatedAt, &cancelledAt, &cancelledBy,
			&d.OfferingName,
		}
		if withSlot {
			dest = append(dest, &slotDate, &slotStart)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if slotID.Valid {
			v := uint64(slotID.Int64)
			d.TimeSlotID = &v
		}
		if depDate.Valid {
			t := depDate.Time
			d.DepartureDate = &t
		}
		if cancelledAt.Valid {
			t := cancelledAt.Time
			d.CancelledAt = &t
		}
		if cancelledBy.Valid {
			by := cancelledBy.String
			d.CancelledBy = &by
		}
		if slotDate.Valid {
			t := slotDate.Time
			d.SlotDate = &t
		}
		if slotStart.Valid {
			st := slotStart.String
			d.SlotStart = &st
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
