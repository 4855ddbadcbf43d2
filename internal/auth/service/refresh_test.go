package service

import (
	"context"
	"time"

	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestRefreshRotatesPair() {
	payload := s.register("alice")
	ctx := context.Background()

	s.now = s.now.Add(time.Second)
	rotated, err := s.service.Refresh(ctx, payload.Authorization.RefreshToken)
	s.Require().NoError(err)

	s.Equal(payload.User.ID, rotated.User.ID)
	s.NotEmpty(rotated.Authorization.AccessToken)
	s.NotEqual(payload.Authorization.RefreshToken, rotated.Authorization.RefreshToken)

	// The new pair is live.
	sub, err := s.service.ValidateAccess(ctx, rotated.Authorization.AccessToken)
	s.Require().NoError(err)
	s.Equal(payload.User.ID, sub.ID)

	// The consumed refresh token cannot mint a second pair.
	_, err = s.service.Refresh(ctx, payload.Authorization.RefreshToken)
	s.Equal(apierrors.CodeInvalidRefreshToken, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestRefreshRejectsAccessToken() {
	payload := s.register("alice")

	_, err := s.service.Refresh(context.Background(), payload.Authorization.AccessToken)
	s.Equal(apierrors.CodeInvalidRefreshToken, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestRefreshRejectsGarbage() {
	_, err := s.service.Refresh(context.Background(), "not-a-token")
	s.Equal(apierrors.CodeInvalidRefreshToken, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestRefreshIsNotAudited() {
	payload := s.register("alice")
	ctx := context.Background()

	_, total, err := s.events.List(ctx, 1, 0)
	s.Require().NoError(err)

	s.now = s.now.Add(time.Second)
	_, err = s.service.Refresh(ctx, payload.Authorization.RefreshToken)
	s.Require().NoError(err)

	_, after, err := s.events.List(ctx, 1, 0)
	s.Require().NoError(err)
	s.Equal(total, after)
}
