package models

import (
	"net/netip"

	"ipvault/pkg/apierrors"
)

// AddIPRequest creates one inventory entry. Comment is optional. RecorderID
// is stamped by the gateway from the authenticated subject.
type AddIPRequest struct {
	Address    string  `json:"ip_address"`
	Label      string  `json:"label"`
	Comment    *string `json:"comment"`
	RecorderID int64   `json:"recorder_id"`
}

func (r *AddIPRequest) Validate() error {
	if _, err := netip.ParseAddr(r.Address); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInvalidIPAddress, "invalid ip address")
	}
	if r.Label == "" {
		return apierrors.New(apierrors.CodeInvalidRequest, "label is required")
	}
	return nil
}

// UpdateIPRequest is a partial update: nil fields are left untouched.
// UpdaterID is stamped by the gateway from the authenticated subject.
type UpdateIPRequest struct {
	Address   *string `json:"ip_address"`
	Label     *string `json:"label"`
	Comment   *string `json:"comment"`
	UpdaterID int64   `json:"updater_id"`
}

func (r *UpdateIPRequest) Validate() error {
	if r.Address == nil && r.Label == nil && r.Comment == nil {
		return apierrors.New(apierrors.CodeInvalidRequest, "no fields to update")
	}
	if r.Address != nil {
		if _, err := netip.ParseAddr(*r.Address); err != nil {
			return apierrors.Wrap(err, apierrors.CodeInvalidIPAddress, "invalid ip address")
		}
	}
	if r.Label != nil && *r.Label == "" {
		return apierrors.New(apierrors.CodeInvalidRequest, "label must not be empty")
	}
	return nil
}

// DeleteIPRequest attributes a logical delete to the acting user.
type DeleteIPRequest struct {
	DeleterID int64 `json:"deleter_id"`
}
