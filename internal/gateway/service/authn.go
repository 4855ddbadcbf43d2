package service

import (
	"context"
	"errors"

	"ipvault/internal/auth/token"
	"ipvault/internal/gateway/client"
	"ipvault/pkg/apierrors"
)

// Authenticate resolves an access token to its subject via the auth
// service. A non-2xx auth reply is propagated verbatim; a transport failure
// or timeout fails closed as an authentication failure, never as success.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*token.Subject, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.authenticate")
	defer span.End()

	sub, err := s.auth.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		span.RecordError(err)
		var upstream *client.UpstreamError
		if errors.As(err, &upstream) {
			s.countAuthentication("rejected")
			return nil, err
		}
		s.countUpstreamFailure("auth")
		s.countAuthentication("unreachable")
		s.logger.WarnContext(ctx, "auth service unreachable, failing closed", "error", err)
		return nil, apierrors.Wrap(err, apierrors.CodeInvalidAccessToken, "authentication unavailable")
	}

	s.countAuthentication("accepted")
	return sub, nil
}

func (s *Service) countAuthentication(outcome string) {
	if s.metrics != nil {
		s.metrics.Authentications.WithLabelValues(outcome).Inc()
	}
}
