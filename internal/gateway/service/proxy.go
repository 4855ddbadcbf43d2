package service

import (
	"context"
	"encoding/json"
	"net/url"

	"ipvault/internal/gateway/client"
	"ipvault/pkg/apierrors"
)

// ProxyAuth forwards one request to the auth service verbatim: the raw body
// goes up unchanged and the upstream status and body come back unchanged.
func (s *Service) ProxyAuth(ctx context.Context, method, path string, query url.Values, bearer string, body json.RawMessage) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.proxy_auth")
	defer span.End()

	var payload any
	if len(body) > 0 {
		payload = body
	}
	resp, err := s.auth.Forward(ctx, method, path, query, bearer, payload)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("auth")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "auth unavailable")
	}
	return resp, nil
}
