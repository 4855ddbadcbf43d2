package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for inventory operations.
type Metrics struct {
	AddressesAdded   prometheus.Counter
	AddressesUpdated prometheus.Counter
	AddressesDeleted prometheus.Counter
	LabelConflicts   prometheus.Counter
	AuditEventDrops  prometheus.Counter
}

// New registers and returns inventory metrics collectors.
func New() *Metrics {
	return &Metrics{
		AddressesAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_ipd_addresses_added_total",
			Help: "Total number of IP addresses added",
		}),
		AddressesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_ipd_addresses_updated_total",
			Help: "Total number of IP address updates that changed at least one field",
		}),
		AddressesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_ipd_addresses_deleted_total",
			Help: "Total number of IP addresses logically deleted",
		}),
		LabelConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_ipd_label_conflicts_total",
			Help: "Total number of mutations rejected by label uniqueness",
		}),
		AuditEventDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_ipd_audit_event_drops_total",
			Help: "Total number of audit events dropped because the event-type catalog entry was missing",
		}),
	}
}
