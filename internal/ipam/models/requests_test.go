package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ipvault/pkg/apierrors"
)

func strptr(s string) *string { return &s }

func TestAddIPRequestValidate(t *testing.T) {
	valid := AddIPRequest{Address: "10.0.0.1", Label: "core"}
	assert.NoError(t, valid.Validate())

	v6 := AddIPRequest{Address: "2001:db8::1", Label: "core-v6"}
	assert.NoError(t, v6.Validate())

	for name, req := range map[string]AddIPRequest{
		"not an address": {Address: "not-an-ip", Label: "core"},
		"empty address":  {Label: "core"},
		"out of range":   {Address: "10.0.0.256", Label: "core"},
		"cidr notation":  {Address: "10.0.0.0/24", Label: "core"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, apierrors.CodeInvalidIPAddress, apierrors.CodeOf(req.Validate()))
		})
	}

	noLabel := AddIPRequest{Address: "10.0.0.1"}
	assert.Equal(t, apierrors.CodeInvalidRequest, apierrors.CodeOf(noLabel.Validate()))
}

func TestUpdateIPRequestValidate(t *testing.T) {
	labelOnly := UpdateIPRequest{Label: strptr("core")}
	assert.NoError(t, labelOnly.Validate())

	commentOnly := UpdateIPRequest{Comment: strptr("")}
	assert.NoError(t, commentOnly.Validate())

	empty := UpdateIPRequest{}
	assert.Equal(t, apierrors.CodeInvalidRequest, apierrors.CodeOf(empty.Validate()))

	badAddr := UpdateIPRequest{Address: strptr("not-an-ip")}
	assert.Equal(t, apierrors.CodeInvalidIPAddress, apierrors.CodeOf(badAddr.Validate()))

	emptyLabel := UpdateIPRequest{Label: strptr("")}
	assert.Equal(t, apierrors.CodeInvalidRequest, apierrors.CodeOf(emptyLabel.Validate()))
}
