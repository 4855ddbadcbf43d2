package models

import "ipvault/internal/auth/token"

// SessionPayload is returned by register and login: the user plus a fresh
// token pair.
type SessionPayload struct {
	User          *User      `json:"user"`
	Authorization token.Pair `json:"authorization"`
}

// UserList wraps the batched users lookup.
type UserList struct {
	Users []*User `json:"users"`
}

// AuditLogPage is one page of the user audit trail, newest first. TotalCount
// is computed separately from the page query and is eventually consistent
// under concurrent writes.
type AuditLogPage struct {
	Events     []*UserEvent `json:"events"`
	TotalCount int          `json:"total_count"`
}
