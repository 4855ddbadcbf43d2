// Package models defines the IP inventory entities and its audit trail rows.
package models

import (
	"time"

	"ipvault/internal/platform/database"
)

// IPAddress is one inventoried address. Deletion is logical: the row and its
// label uniqueness survive so historical audit events stay resolvable.
type IPAddress struct {
	ID         int64     `json:"id" db:"id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Address    string    `json:"ip_address" db:"ip_address"`
	Label      string    `json:"label" db:"label"`
	Comment    *string   `json:"comment" db:"comment"`
	RecorderID int64     `json:"recorder_id" db:"recorder_id"`
	IsDeleted  bool      `json:"is_deleted" db:"is_deleted"`
}

// IPEventType is one row of the pre-seeded event-type catalog.
type IPEventType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// IPEvent is one immutable audit row. OldData and NewData hold only the
// fields that changed; an add event carries the created fields in NewData
// and a delete event carries empty maps. Audit-log responses embed the
// referenced address, so readers can resolve its recorder.
type IPEvent struct {
	ID            int64            `json:"id" db:"id"`
	RecordedAt    time.Time        `json:"recorded_at" db:"recorded_at"`
	TriggerUserID *int64           `json:"trigger_user_id" db:"trigger_user_id"`
	IPAddressID   int64            `json:"-" db:"ip_address_id"`
	EventTypeID   int64            `json:"-" db:"event_type_id"`
	EventType     string           `json:"event_type" db:"event_type"`
	OldData       database.JSONMap `json:"old_data" db:"old_data"`
	NewData       database.JSONMap `json:"new_data" db:"new_data"`

	IP *IPAddress `json:"ip" db:"-"`
}
