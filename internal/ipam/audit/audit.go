// Package audit computes field-level diffs for inventory mutations and maps
// each changed-field combination to its catalogued event-type name.
package audit

import (
	"strings"

	"ipvault/internal/ipam/models"
	"ipvault/internal/platform/database"
)

const (
	prefix        = "ip_address"
	EventAdded    = prefix + "_added"
	EventDeleted  = prefix + "_deleted"
	modifiedInfix = "_modified_"
)

// Field is one tracked attribute of an inventory entry. Key is the diff-map
// key; NameSegment is the token that field contributes to a modified event
// name. Fields are ordered: event names always list segments in this order.
type Field struct {
	Key         string
	NameSegment string
	value       func(*models.IPAddress) string
}

// TrackedFields is the ordered set of diffable attributes. Adding an
// attribute here extends the catalog and the diff automatically.
var TrackedFields = []Field{
	{Key: "ip_address", NameSegment: "ip", value: func(a *models.IPAddress) string { return a.Address }},
	{Key: "label", NameSegment: "label", value: func(a *models.IPAddress) string { return a.Label }},
	{Key: "comment", NameSegment: "comment", value: func(a *models.IPAddress) string {
		if a.Comment == nil {
			return ""
		}
		return *a.Comment
	}},
}

// Snapshot captures the tracked fields of an entry before a mutation.
type Snapshot map[string]string

// Capture records the current tracked-field values of addr.
func Capture(addr *models.IPAddress) Snapshot {
	snap := make(Snapshot, len(TrackedFields))
	for _, f := range TrackedFields {
		snap[f.Key] = f.value(addr)
	}
	return snap
}

// Diff is the outcome of comparing a snapshot with the committed state:
// the changed fields' old and new values plus the event name describing
// exactly that combination.
type Diff struct {
	EventName string
	OldData   database.JSONMap
	NewData   database.JSONMap
}

// Changed reports whether any tracked field differs.
func (d Diff) Changed() bool {
	return len(d.OldData) > 0
}

// Compute compares before against the current state of addr. Unchanged
// fields are omitted from both maps. The event name joins the changed
// fields' segments in tracked order, so changing address and comment yields
// "ip_address_modified_ip_comment".
func Compute(before Snapshot, addr *models.IPAddress) Diff {
	diff := Diff{
		OldData: database.JSONMap{},
		NewData: database.JSONMap{},
	}
	var segments []string
	for _, f := range TrackedFields {
		now := f.value(addr)
		if prev := before[f.Key]; prev != now {
			diff.OldData[f.Key] = prev
			diff.NewData[f.Key] = now
			segments = append(segments, f.NameSegment)
		}
	}
	diff.EventName = prefix + modifiedInfix + strings.Join(segments, "_")
	return diff
}

// Added builds the event for a freshly created entry: OldData is empty and
// NewData carries the entry's non-empty tracked fields.
func Added(addr *models.IPAddress) Diff {
	diff := Diff{
		EventName: EventAdded,
		OldData:   database.JSONMap{},
		NewData:   database.JSONMap{},
	}
	for _, f := range TrackedFields {
		if v := f.value(addr); v != "" {
			diff.NewData[f.Key] = v
		}
	}
	return diff
}

// Deleted builds the event for a logical delete. The deletion flag is not a
// tracked field, so both maps stay empty; the event type carries the meaning.
func Deleted() Diff {
	return Diff{
		EventName: EventDeleted,
		OldData:   database.JSONMap{},
		NewData:   database.JSONMap{},
	}
}

// CatalogNames enumerates every event name the store must have seeded:
// added, deleted, and one modified variant per non-empty subset of tracked
// fields, segments in tracked order.
func CatalogNames() []string {
	names := []string{EventAdded}
	n := len(TrackedFields)
	for mask := 1; mask < 1<<n; mask++ {
		var segments []string
		for i, f := range TrackedFields {
			if mask&(1<<i) != 0 {
				segments = append(segments, f.NameSegment)
			}
		}
		names = append(names, prefix+modifiedInfix+strings.Join(segments, "_"))
	}
	return append(names, EventDeleted)
}
