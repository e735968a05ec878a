package model

import "time"

// Event represents a calendar entry owned by a single user, mirroring the
// `events` table. Every query against this table filters by UserID, so one
// user can never observe or mutate another user's rows.
//
// Fields:
//
//	ID          – primary key identifier of the event.
//	UserID      – owner of the event; part of every WHERE clause.
//	Name        – short title of the event.
//	Description – free-form details.
//	Location    – where the event takes place.
//	FromDate    – UTC start of the event.
//	ToDate      – UTC end of the event.
//	Contact     – phone number or email of the event contact person.
//	CreatedAt   – timestamp of creation.
//	UpdatedAt   – timestamp of last update.
type Event struct {
	ID          uint64    // events.id
	UserID      uint64    // events.user_id
	Name        string    // events.name
	Description string    // events.description
	Location    string    // events.location
	FromDate    time.Time // events.from_date
	ToDate      time.Time // events.to_date
	Contact     string    // events.contact
	CreatedAt   time.Time // events.created_at
	UpdatedAt   time.Time // events.updated_at
}
