package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for gateway operations.
type Metrics struct {
	Authentications  *prometheus.CounterVec
	AuthzDenials     prometheus.Counter
	UpstreamFailures *prometheus.CounterVec
}

// New registers and returns gateway metrics collectors.
func New() *Metrics {
	return &Metrics{
		Authentications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ipvault_gateway_authentications_total",
			Help: "Total number of access-token authentications by outcome",
		}, []string{"outcome"}),
		AuthzDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ipvault_gateway_authz_denials_total",
			Help: "Total number of ownership or superuser checks that denied a request",
		}),
		UpstreamFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ipvault_gateway_upstream_failures_total",
			Help: "Total number of upstream calls that failed at the transport level",
		}, []string{"upstream"}),
	}
}
