package models

// IPList is one page of inventory entries, excluding deleted ones.
type IPList struct {
	Addresses  []*IPAddress `json:"ips"`
	TotalCount int          `json:"total_count"`
}

// AuditLogPage is one page of the inventory audit trail, newest first.
// TotalCount is eventually consistent under concurrent writes.
type AuditLogPage struct {
	Events     []*IPEvent `json:"events"`
	TotalCount int        `json:"total_count"`
}
