package models

import (
	"time"

	"ipvault/internal/platform/database"
)

// User is an account identity. Users are never deleted; the password hash
// and superuser flag change only through dedicated operations.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsSuperuser  bool   `db:"is_superuser" json:"is_superuser"`
}

// RevokedToken is one entry in the append-only revocation ledger. The token
// string itself is the unique key; re-inserting an existing token is a no-op.
type RevokedToken struct {
	ID    int64  `db:"id"`
	Token string `db:"token"`
}

// UserEventType is one entry in the pre-seeded, immutable catalog of
// permissible user audit event kinds.
type UserEventType struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Names of the user event-type catalog, seeded once at setup.
const (
	EventLogin    = "login"
	EventLogout   = "logout"
	EventRegister = "register"
)

// UserEventTypeNames lists the full catalog for seeding.
func UserEventTypeNames() []string {
	return []string{EventLogin, EventLogout, EventRegister}
}

// UserEvent is one immutable audit row. It is written after the triggering
// mutation commits and is never updated or deleted.
type UserEvent struct {
	ID            int64            `db:"id" json:"id"`
	RecordedAt    time.Time        `db:"recorded_at" json:"recorded_at"`
	TriggerUserID *int64           `db:"trigger_user_id" json:"trigger_user_id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	EventTypeID   int64            `db:"event_type_id" json:"-"`
	EventType     string           `db:"event_type" json:"event_type"`
	OldData       database.JSONMap `db:"old_data" json:"old_data,omitempty"`
	NewData       database.JSONMap `db:"new_data" json:"new_data,omitempty"`
}
