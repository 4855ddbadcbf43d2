package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/internal/auth/token"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestRegister() {
	payload := s.register("alice")

	s.Equal("alice", payload.User.Username)
	s.False(payload.User.IsSuperuser)
	s.NotEmpty(payload.Authorization.AccessToken)
	s.NotEmpty(payload.Authorization.RefreshToken)

	claims, err := s.tokens.Validate(context.Background(), payload.Authorization.AccessToken, token.TypeAccess)
	s.Require().NoError(err)
	s.Equal(payload.User.ID, claims.Data.ID)

	ev := s.lastEvent()
	s.Equal(models.EventRegister, ev.EventType)
	s.Equal(payload.User.ID, ev.UserID)
	s.Require().NotNil(ev.TriggerUserID)
	s.Equal(payload.User.ID, *ev.TriggerUserID)
}

func (s *ServiceSuite) TestRegisterMismatchedPasswords() {
	_, err := s.service.Register(context.Background(), &models.RegistrationRequest{
		Username:  "alice",
		Password1: "one",
		Password2: "two",
	})
	s.Equal(apierrors.CodeMismatchedPasswords, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestRegisterTakenUsername() {
	s.register("alice")

	_, err := s.service.Register(context.Background(), &models.RegistrationRequest{
		Username:  "alice",
		Password1: "another-password",
		Password2: "another-password",
	})
	s.Equal(apierrors.CodeUnavailableUsername, apierrors.CodeOf(err))
}
