package service

import (
	"context"

	"ipvault/internal/auth/token"
	"ipvault/pkg/apierrors"
)

// ValidateAccess checks an access token and returns its subject. Every
// failure mode collapses to invalid_access_token; callers only need to know
// the bearer is not trusted.
func (s *Service) ValidateAccess(ctx context.Context, accessToken string) (*token.Subject, error) {
	claims, err := s.tokens.Validate(ctx, accessToken, token.TypeAccess)
	if err != nil {
		s.countValidation("rejected")
		return nil, apierrors.Wrap(err, apierrors.CodeInvalidAccessToken, "validate access token")
	}
	s.countValidation("accepted")
	return &claims.Data, nil
}

func (s *Service) countValidation(outcome string) {
	if s.metrics != nil {
		s.metrics.TokenValidations.WithLabelValues(outcome).Inc()
	}
}
