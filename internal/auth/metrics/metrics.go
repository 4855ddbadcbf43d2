package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for auth operations.
type Metrics struct {
	Registrations    prometheus.Counter
	Logins           prometheus.Counter
	LoginFailures    prometheus.Counter
	Logouts          prometheus.Counter
	TokensIssued     prometheus.Counter
	TokenRefreshes   prometheus.Counter
	TokensRevoked    prometheus.Counter
	TokenValidations *prometheus.CounterVec
	AuditEventDrops  prometheus.Counter
}

// New registers and returns auth metrics collectors.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_registrations_total",
			Help: "Total number of users registered",
		}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_logouts_total",
			Help: "Total number of completed logouts",
		}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_tokens_issued_total",
			Help: "Total number of token pairs issued",
		}),
		TokenRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_token_refreshes_total",
			Help: "Total number of refresh-token rotations",
		}),
		TokensRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_tokens_revoked_total",
			Help: "Total number of tokens added to the revocation ledger",
		}),
		TokenValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ipvault_auth_token_validations_total",
			Help: "Total number of access-token validations by outcome",
		}, []string{"outcome"}),
		AuditEventDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_auth_audit_event_drops_total",
			Help: "Total number of audit events dropped because the event-type catalog entry was missing",
		}),
	}
}
