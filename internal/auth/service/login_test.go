package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestLogin() {
	s.register("alice")

	payload, err := s.service.Login(context.Background(), &models.LoginRequest{
		Username: "alice",
		Password: "hunter2hunter2",
	}, testUserAgent)
	s.Require().NoError(err)

	s.Equal("alice", payload.User.Username)
	s.NotEmpty(payload.Authorization.AccessToken)
	s.NotEmpty(payload.Authorization.RefreshToken)

	ev := s.lastEvent()
	s.Equal(models.EventLogin, ev.EventType)
	s.Equal(payload.User.ID, ev.UserID)
	s.Contains(ev.NewData, "device")
	s.Contains(ev.NewData["device"], "Firefox")
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(context.Background(), &models.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	}, testUserAgent)
	s.Equal(apierrors.CodeWrongCredentials, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	s.register("alice")

	_, err := s.service.Login(context.Background(), &models.LoginRequest{
		Username: "alice",
		Password: "not-the-password",
	}, testUserAgent)
	s.Equal(apierrors.CodeWrongCredentials, apierrors.CodeOf(err))

	// No login event was recorded for the failed attempt.
	ev := s.lastEvent()
	s.Equal(models.EventRegister, ev.EventType)
}
