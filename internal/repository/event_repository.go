package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/planora/planora-api/internal/model"
)

// EventRepo owns all SQL against the 'events' table. Every read and
// mutation filters by the owning user id, so cross-user access surfaces
// as ErrEventNotFound rather than another user's data.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventColumns = "id,user_id,name,description,location,from_date,to_date,contact,created_at,updated_at"

// Create inserts an event and assigns the generated ID back to the struct.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (user_id, name, description, location, from_date, to_date, contact) VALUES (?,?,?,?,?,?,?)",
		ev.UserID, ev.Name, ev.Description, ev.Location, ev.FromDate, ev.ToDate, ev.Contact)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// GetByIDAndOwner fetches one event scoped to its owner.
func (r *EventRepo) GetByIDAndOwner(ctx context.Context, id, userID uint64) (model.Event, error) {
	var ev model.Event
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&ev.ID, &ev.UserID, &ev.Name, &ev.Description, &ev.Location,
		&ev.FromDate, &ev.ToDate, &ev.Contact, &ev.CreatedAt, &ev.UpdatedAt)
	if err == sql.ErrNoRows {
		return ev, ErrEventNotFound
	}
	return ev, err
}

// ListByOwner returns all events belonging to a user, earliest first.
func (r *EventRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE user_id=? ORDER BY from_date ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListByDayAndOwner returns the owner's events whose from_date falls in
// the half-open UTC window [start, end). The window is computed by the
// caller from the user's local calendar day.
func (r *EventRepo) ListByDayAndOwner(ctx context.Context, userID uint64, start, end time.Time) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE user_id=? AND from_date>=? AND from_date<? ORDER BY from_date ASC",
		userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Update overwrites the full mutable row of an event owned by the user.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	// Existence is verified separately: RowsAffected is zero for a
	// same-value update as well as for a missing row.
	if _, err := r.GetByIDAndOwner(ctx, ev.ID, ev.UserID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE events SET name=?, description=?, location=?, from_date=?, to_date=?, contact=? WHERE id=? AND user_id=?",
		ev.Name, ev.Description, ev.Location, ev.FromDate, ev.ToDate, ev.Contact, ev.ID, ev.UserID)
	return err
}

// Delete removes an event by id and owner.
func (r *EventRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM events WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Name, &ev.Description, &ev.Location,
			&ev.FromDate, &ev.ToDate, &ev.Contact, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
