package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ipvault/internal/gateway/client"
	"ipvault/pkg/apierrors"
)

// UsersAuditLog proxies the user audit log. The auth service enforces the
// superuser rule itself, so the gateway only forwards.
func (s *Service) UsersAuditLog(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.users_audit_log")
	defer span.End()

	resp, err := s.auth.Forward(ctx, http.MethodGet, "/audit-log",
		pageQuery(itemsPerPage, pageNumber), accessToken, nil)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("auth")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "auth unavailable")
	}
	return resp, nil
}

// IPsAuditLog serves the inventory audit log. The inventory service does not
// check authorization, so the gateway enforces the superuser rule before
// fetching, then batch-resolves trigger users and recorders and embeds them
// in place of the raw ids.
func (s *Service) IPsAuditLog(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.ips_audit_log")
	defer span.End()

	sub, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !sub.IsSuperuser {
		if s.metrics != nil {
			s.metrics.AuthzDenials.Inc()
		}
		return nil, apierrors.New(apierrors.CodeForbiddenAction, "audit log requires superuser")
	}

	resp, err := s.inventory.AuditLog(ctx, itemsPerPage, pageNumber)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("inventory")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "inventory unavailable")
	}
	if !resp.OK() {
		return resp, nil
	}

	return s.mutateData(resp, func(data map[string]any) error {
		events, err := pageSlice(data, "events")
		if err != nil {
			return err
		}

		var ids []int64
		for _, raw := range events {
			event, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := event["trigger_user_id"].(float64); ok {
				ids = append(ids, int64(id))
			}
			if ip, ok := event["ip"].(map[string]any); ok {
				if id, ok := ip["recorder_id"].(float64); ok {
					ids = append(ids, int64(id))
				}
			}
		}

		users := map[int64]map[string]any{}
		if len(ids) > 0 {
			var err error
			users, err = s.auth.ResolveUsers(ctx, accessToken, ids)
			if err != nil {
				return err
			}
		}
		for _, raw := range events {
			event, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			embedUser(event, "trigger_user_id", "trigger_user", users)
			if ip, ok := event["ip"].(map[string]any); ok {
				embedUser(ip, "recorder_id", "recorder", users)
			}
		}
		return nil
	})
}

func pageQuery(itemsPerPage, pageNumber int) url.Values {
	return url.Values{
		"items_per_page": []string{strconv.Itoa(itemsPerPage)},
		"page_number":    []string{strconv.Itoa(pageNumber)},
	}
}
