package models

import "ipvault/pkg/apierrors"

// RegistrationRequest carries the double-entered password from the signup form.
type RegistrationRequest struct {
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

func (r *RegistrationRequest) Validate() error {
	if r.Username == "" || r.Password1 == "" || r.Password2 == "" {
		return apierrors.New(apierrors.CodeInvalidRequest, "username and both passwords are required")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return apierrors.New(apierrors.CodeInvalidRequest, "username and password are required")
	}
	return nil
}

// LogoutRequest must present both tokens; logout is all-or-nothing.
type LogoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *LogoutRequest) Validate() error {
	if r.AccessToken == "" {
		return apierrors.New(apierrors.CodeInvalidAccessToken, "access token is required")
	}
	if r.RefreshToken == "" {
		return apierrors.New(apierrors.CodeInvalidRefreshToken, "refresh token is required")
	}
	return nil
}

type AccessTokenValidationRequest struct {
	AccessToken string `json:"access_token"`
}

func (r *AccessTokenValidationRequest) Validate() error {
	if r.AccessToken == "" {
		return apierrors.New(apierrors.CodeInvalidAccessToken, "access token is required")
	}
	return nil
}
