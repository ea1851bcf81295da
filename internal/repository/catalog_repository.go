package repository

import (
	"context"
	"database/sql"
	"errors"

	"voyago/internal/model"
)

// CatalogRepo provides read-only snapshots of the offering catalog. The
// reservation core validates existence and expiry against these snapshots
// but never mutates catalog metadata; creation and editing of voyages,
// activities and slots belong to the back office, outside this service.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo returns a CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// VoyageByID loads one voyage. Returns ErrNotFound when it does not exist.
func (r *CatalogRepo) VoyageByID(ctx context.Context, id uint64) (*model.Voyage, error) {
	const q = `SELECT id, name, destination, description, price_cents, max_participants,
	                  total_spots, available_spots, departure_date, created_at, updated_at
	           FROM voyages WHERE id = ?`
	var v model.Voyage
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.Name, &v.Destination, &v.Description, &v.PriceCents, &v.MaxParticipants,
		&v.TotalSpots, &v.AvailableSpots, &v.DepartureDate, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ActivityByID loads one activity. Returns ErrNotFound when it does not exist.
func (r *CatalogRepo) ActivityByID(ctx context.Context, id uint64) (*model.Activity, error) {
	const q = `SELECT id, name, location, description, price_cents, max_participants,
	                  created_at, updated_at
	           FROM activities WHERE id = ?`
	var a model.Activity
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.Location, &a.Description, &a.PriceCents, &a.MaxParticipants,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// TimeSlotByID loads one activity slot, including its owning activity id so
// callers can verify the slot actually belongs to the requested activity.
func (r *CatalogRepo) TimeSlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	const q = `SELECT id, activity_id, slot_date, start_time, end_time,
	                  total_spots, available_spots, created_at, updated_at
	           FROM activity_slots WHERE id = ?`
	var s model.TimeSlot
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.ActivityID, &s.SlotDate, &s.StartTime, &s.EndTime,
		&s.TotalSpots, &s.AvailableSpots, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListVoyages returns the full voyage catalog ordered by departure date.
func (r *CatalogRepo) ListVoyages(ctx context.Context) ([]model.Voyage, error) {
	const q = `SELECT id, name, destination, description, price_cents, max_participants,
	                  total_spots, available_spots, departure_date, created_at, updated_at
	           FROM voyages ORDER BY departure_date, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Voyage, 0)
	for rows.Next() {
		var v model.Voyage
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Destination, &v.Description, &v.PriceCents, &v.MaxParticipants,
			&v.TotalSpots, &v.AvailableSpots, &v.DepartureDate, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListActivities returns the full activity catalog ordered by name.
func (r *CatalogRepo) ListActivities(ctx context.Context) ([]model.Activity, error) {
	const q = `SELECT id, name, location, description, price_cents, max_participants,
	                  created_at, updated_at
	           FROM activities ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Location, &a.Description, &a.PriceCents, &a.MaxParticipants,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SlotsByActivity returns the ordered time slots of one activity. It
// returns ErrNotFound when the activity itself does not exist, so callers
// can distinguish "no slots yet" from "no such activity".
func (r *CatalogRepo) SlotsByActivity(ctx context.Context, activityID uint64) ([]model.TimeSlot, error) {
	if _, err := r.ActivityByID(ctx, activityID); err != nil {
		return nil, err
	}
	const q = `SELECT id, activity_id, slot_date, start_time, end_time,
	                  total_spots, available_spots, created_at, updated_at
	           FROM activity_slots WHERE activity_id = ?
	           ORDER BY slot_date, start_time, id`
	rows, err := r.db.QueryContext(ctx, q, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(
			&s.ID, &s.ActivityID, &s.SlotDate, &s.StartTime, &s.EndTime,
			&s.TotalSpots, &s.AvailableSpots, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
