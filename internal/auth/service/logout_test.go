package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestLogoutRevokesBothTokens() {
	payload := s.register("alice")
	ctx := context.Background()

	err := s.service.Logout(ctx, &models.LogoutRequest{
		AccessToken:  payload.Authorization.AccessToken,
		RefreshToken: payload.Authorization.RefreshToken,
	})
	s.Require().NoError(err)

	for _, raw := range []string{payload.Authorization.AccessToken, payload.Authorization.RefreshToken} {
		revoked, err := s.revocations.IsRevoked(ctx, raw)
		s.Require().NoError(err)
		s.True(revoked)
	}

	_, err = s.service.ValidateAccess(ctx, payload.Authorization.AccessToken)
	s.Equal(apierrors.CodeInvalidAccessToken, apierrors.CodeOf(err))

	_, err = s.service.Refresh(ctx, payload.Authorization.RefreshToken)
	s.Equal(apierrors.CodeInvalidRefreshToken, apierrors.CodeOf(err))

	ev := s.lastEvent()
	s.Equal(models.EventLogout, ev.EventType)
	s.Equal(payload.User.ID, ev.UserID)
}

func (s *ServiceSuite) TestLogoutRejectsMalformedTokenBeforeRevoking() {
	payload := s.register("alice")
	ctx := context.Background()

	err := s.service.Logout(ctx, &models.LogoutRequest{
		AccessToken:  payload.Authorization.AccessToken,
		RefreshToken: "garbage",
	})
	s.Equal(apierrors.CodeInvalidRefreshToken, apierrors.CodeOf(err))

	// The well-formed access token must not have been revoked.
	revoked, err := s.revocations.IsRevoked(ctx, payload.Authorization.AccessToken)
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *ServiceSuite) TestLogoutIsIdempotent() {
	payload := s.register("alice")
	ctx := context.Background()

	req := &models.LogoutRequest{
		AccessToken:  payload.Authorization.AccessToken,
		RefreshToken: payload.Authorization.RefreshToken,
	}
	s.Require().NoError(s.service.Logout(ctx, req))
	s.Require().NoError(s.service.Logout(ctx, req))
}
