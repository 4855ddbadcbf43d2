package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/internal/auth/token"
	"ipvault/pkg/apierrors"
)

// Refresh rotates a token pair: the presented refresh token is validated,
// a fresh pair is issued for its subject, and the old refresh token is
// revoked so it cannot mint a second pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.SessionPayload, error) {
	claims, err := s.tokens.Validate(ctx, refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInvalidRefreshToken, "validate refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.Data.ID)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInvalidRefreshToken, "refresh token subject unknown")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	// Revoke only after the new pair exists, so a failed rotation leaves
	// the old refresh token usable for a retry.
	if err := s.revocations.Revoke(ctx, refreshToken); err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "revoke rotated refresh token")
	}
	if s.metrics != nil {
		s.metrics.TokensRevoked.Inc()
		s.metrics.TokenRefreshes.Inc()
	}

	return &models.SessionPayload{User: user, Authorization: pair}, nil
}
