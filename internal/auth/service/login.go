package service

import (
	"context"
	"errors"

	"ipvault/internal/auth/device"
	"ipvault/internal/auth/models"
	"ipvault/internal/auth/password"
	"ipvault/internal/platform/database"
	"ipvault/internal/sentinel"
	"ipvault/pkg/apierrors"
)

// Login verifies credentials and issues a fresh token pair. An unknown
// username and a wrong password both map to wrong_credentials so the
// response does not reveal which one failed.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, userAgent string) (*models.SessionPayload, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incLoginFailures()
			return nil, apierrors.New(apierrors.CodeWrongCredentials, "wrong credentials")
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "find user")
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		s.incLoginFailures()
		return nil, apierrors.New(apierrors.CodeWrongCredentials, "wrong credentials")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, models.EventLogin, &user.ID, user.ID, nil, database.JSONMap{
		"device": device.Describe(userAgent),
	})
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}

	return &models.SessionPayload{User: user, Authorization: pair}, nil
}

func (s *Service) incLoginFailures() {
	if s.metrics != nil {
		s.metrics.LoginFailures.Inc()
	}
}
