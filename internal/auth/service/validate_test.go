package service

import (
	"context"
	"io"
	"log/slog"

	"ipvault/internal/auth/models"
	"ipvault/internal/auth/store/event"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestValidateAccess() {
	payload := s.register("alice")

	sub, err := s.service.ValidateAccess(context.Background(), payload.Authorization.AccessToken)
	s.Require().NoError(err)
	s.Equal(payload.User.ID, sub.ID)
	s.Equal("alice", sub.Username)
	s.False(sub.IsSuperuser)
}

func (s *ServiceSuite) TestValidateAccessRejectsRefreshToken() {
	payload := s.register("alice")

	_, err := s.service.ValidateAccess(context.Background(), payload.Authorization.RefreshToken)
	s.Equal(apierrors.CodeInvalidAccessToken, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestValidateAccessRejectsGarbage() {
	_, err := s.service.ValidateAccess(context.Background(), "garbage")
	s.Equal(apierrors.CodeInvalidAccessToken, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestMissingCatalogEntryDoesNotFailMutation() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	unseeded := New(s.users, s.revocations, event.NewInMemory(), s.tokens, WithLogger(logger))

	payload, err := unseeded.Register(context.Background(), &models.RegistrationRequest{
		Username:  "alice",
		Password1: "hunter2hunter2",
		Password2: "hunter2hunter2",
	})
	s.Require().NoError(err)
	s.NotEmpty(payload.Authorization.AccessToken)
}
