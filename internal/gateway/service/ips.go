package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ipvault/internal/gateway/client"
	"ipvault/internal/ipam/models"
	"ipvault/pkg/apierrors"
)

// CreateIP authenticates the caller, stamps them as the recorder, and
// forwards the add to the inventory service. The backend's reply passes
// through verbatim.
func (s *Service) CreateIP(ctx context.Context, accessToken string, req *models.AddIPRequest) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.create_ip")
	defer span.End()

	sub, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	req.RecorderID = sub.ID
	resp, err := s.inventory.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("inventory")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "inventory unavailable")
	}
	return resp, nil
}

// UpdateIP authenticates, authorizes the mutation against the current
// recorder, forwards the patch, and on success embeds the entry's recorder
// as a user object in place of the raw recorder_id.
func (s *Service) UpdateIP(ctx context.Context, accessToken string, id int64, req *models.UpdateIPRequest) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.update_ip",
		trace.WithAttributes(attribute.Int64("ip_address_id", id)))
	defer span.End()

	sub, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeMutation(ctx, id, sub); err != nil {
		span.RecordError(err)
		return nil, err
	}

	req.UpdaterID = sub.ID
	resp, err := s.inventory.Update(ctx, id, req)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("inventory")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "inventory unavailable")
	}
	if !resp.OK() {
		return resp, nil
	}

	return s.embedRecorder(ctx, accessToken, resp)
}

// DeleteIP authenticates, authorizes, and forwards the logical delete.
func (s *Service) DeleteIP(ctx context.Context, accessToken string, id int64) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.delete_ip",
		trace.WithAttributes(attribute.Int64("ip_address_id", id)))
	defer span.End()

	sub, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeMutation(ctx, id, sub); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp, err := s.inventory.Delete(ctx, id, sub.ID)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("inventory")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "inventory unavailable")
	}
	return resp, nil
}

// ListIPs authenticates, fetches one page of entries, batch-resolves the
// distinct recorder ids in a single users call, and substitutes each raw
// recorder_id with the resolved user object.
func (s *Service) ListIPs(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.list_ips")
	defer span.End()

	if _, err := s.Authenticate(ctx, accessToken); err != nil {
		return nil, err
	}

	resp, err := s.inventory.List(ctx, itemsPerPage, pageNumber)
	if err != nil {
		span.RecordError(err)
		s.countUpstreamFailure("inventory")
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "inventory unavailable")
	}
	if !resp.OK() {
		return resp, nil
	}

	return s.mutateData(resp, func(data map[string]any) error {
		ips, err := pageSlice(data, "ips")
		if err != nil {
			return err
		}

		var ids []int64
		for _, raw := range ips {
			if ip, ok := raw.(map[string]any); ok {
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
		for _, raw := range ips {
			ip, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			embedUser(ip, "recorder_id", "recorder", users)
		}
		return nil
	})
}

// embedRecorder rewrites a single-entry mutation reply, replacing the
// data.ip.recorder_id with the resolved recorder object.
func (s *Service) embedRecorder(ctx context.Context, accessToken string, resp *client.Response) (*client.Response, error) {
	return s.mutateData(resp, func(data map[string]any) error {
		ip, ok := data["ip"].(map[string]any)
		if !ok {
			return fmt.Errorf("inventory payload missing ip")
		}
		id, ok := ip["recorder_id"].(float64)
		if !ok {
			return fmt.Errorf("inventory payload missing recorder_id")
		}

		users, err := s.auth.ResolveUsers(ctx, accessToken, []int64{int64(id)})
		if err != nil {
			return err
		}
		embedUser(ip, "recorder_id", "recorder", users)
		return nil
	})
}

// mutateData decodes a 2xx envelope, lets fn rewrite the data member, and
// re-encodes the envelope with the original status.
func (s *Service) mutateData(resp *client.Response, fn func(data map[string]any) error) (*client.Response, error) {
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "decode upstream payload")
	}

	if err := fn(envelope.Data); err != nil {
		var upstream *client.UpstreamError
		if errors.As(err, &upstream) {
			return nil, err
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "assemble response")
	}

	body, err := json.Marshal(map[string]any{"data": envelope.Data})
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "encode response")
	}
	return &client.Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// pageSlice extracts a list member from a paginated envelope. An empty page
// may arrive as JSON null rather than [] and still passes through; only a
// missing key means the payload is malformed.
func pageSlice(data map[string]any, key string) ([]any, error) {
	raw, present := data[key]
	if !present {
		return nil, fmt.Errorf("upstream payload missing %s", key)
	}
	if raw == nil {
		empty := []any{}
		data[key] = empty
		return empty, nil
	}
	slice, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("upstream payload %s is not a list", key)
	}
	return slice, nil
}

// embedUser swaps entity[idKey] for the matching resolved user object under
// objKey. An unresolvable or null id leaves a null object rather than
// inventing one, so every rewritten entity carries objKey and never idKey.
func embedUser(entity map[string]any, idKey, objKey string, users map[int64]map[string]any) {
	raw, present := entity[idKey]
	if !present {
		return
	}
	delete(entity, idKey)
	if id, ok := raw.(float64); ok {
		if user, ok := users[int64(id)]; ok {
			entity[objKey] = user
			return
		}
	}
	entity[objKey] = nil
}
