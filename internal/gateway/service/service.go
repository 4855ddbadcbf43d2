// Package service implements the gateway's fan-out: authenticate against the
// auth service, authorize ownership locally, call the inventory service, and
// stitch the responses together, substituting foreign keys with embedded
// user objects.
package service

import (
	"context"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ipvault/internal/auth/token"
	"ipvault/internal/gateway/client"
	"ipvault/internal/gateway/metrics"
	"ipvault/internal/ipam/models"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

// AuthAPI is the slice of the auth service the gateway consumes.
type AuthAPI interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (*token.Subject, error)
	ResolveUsers(ctx context.Context, accessToken string, ids []int64) (map[int64]map[string]any, error)
	Forward(ctx context.Context, method, path string, query url.Values, bearer string, body any) (*client.Response, error)
}

// InventoryAPI is the slice of the inventory service the gateway consumes.
type InventoryAPI interface {
	Get(ctx context.Context, id int64) (*models.IPAddress, error)
	Create(ctx context.Context, req *models.AddIPRequest) (*client.Response, error)
	Update(ctx context.Context, id int64, req *models.UpdateIPRequest) (*client.Response, error)
	Delete(ctx context.Context, id, deleterID int64) (*client.Response, error)
	List(ctx context.Context, itemsPerPage, pageNumber int) (*client.Response, error)
	AuditLog(ctx context.Context, itemsPerPage, pageNumber int) (*client.Response, error)
}

// Service is the stateless façade over the two backends.
type Service struct {
	auth      AuthAPI
	inventory InventoryAPI
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option customizes a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer injects a pre-configured tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs the gateway service.
func New(auth AuthAPI, inventory InventoryAPI, opts ...Option) *Service {
	svc := &Service{
		auth:      auth,
		inventory: inventory,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer("ipvault/gateway")
	}
	return svc
}

func (s *Service) countUpstreamFailure(upstream string) {
	if s.metrics != nil {
		s.metrics.UpstreamFailures.WithLabelValues(upstream).Inc()
	}
}
