// Package handler exposes the public API surface of the gateway. Auth
// endpoints proxy through unchanged; inventory endpoints authenticate,
// authorize, and aggregate before replying.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ipvault/internal/gateway/client"
	"ipvault/internal/ipam/models"
	"ipvault/internal/platform/middleware"
	"ipvault/internal/transport/httpx"
	"ipvault/pkg/apierrors"
)

// Service defines the interface for the gateway operations.
type Service interface {
	ProxyAuth(ctx context.Context, method, path string, query url.Values, bearer string, body json.RawMessage) (*client.Response, error)
	CreateIP(ctx context.Context, accessToken string, req *models.AddIPRequest) (*client.Response, error)
	UpdateIP(ctx context.Context, accessToken string, id int64, req *models.UpdateIPRequest) (*client.Response, error)
	DeleteIP(ctx context.Context, accessToken string, id int64) (*client.Response, error)
	ListIPs(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error)
	UsersAuditLog(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error)
	IPsAuditLog(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error)
}

// Handler handles the gateway routes.
type Handler struct {
	gateway Service
	logger  *slog.Logger
}

// New creates a gateway Handler with the given service and logger.
func New(gateway Service, logger *slog.Logger) *Handler {
	return &Handler{gateway: gateway, logger: logger}
}

// Register registers the gateway routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/register", h.proxyAuth(http.MethodPut, "/register"))
	r.Post("/login", h.proxyAuth(http.MethodPost, "/login"))
	r.Post("/logout", h.proxyAuth(http.MethodPost, "/logout"))
	r.Post("/token/access/validate", h.proxyAuth(http.MethodPost, "/token/access/validate"))
	r.Get("/token/refresh", h.proxyAuth(http.MethodGet, "/token/refresh"))
	r.Get("/users", h.proxyAuth(http.MethodGet, "/users"))

	r.Post("/ips", h.HandleCreateIP)
	r.Patch("/ips/{ip_address_id}", h.HandleUpdateIP)
	r.Delete("/ips/{ip_address_id}", h.HandleDeleteIP)
	r.Get("/ips", h.HandleListIPs)

	r.Get("/audit-log/users", h.HandleUsersAuditLog)
	r.Get("/audit-log/ips", h.HandleIPsAuditLog)
}

// proxyAuth builds a passthrough handler for one auth-service route.
func (h *Handler) proxyAuth(method, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := middleware.GetRequestID(ctx)

		var body json.RawMessage
		if r.Body != nil {
			raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				httpx.WriteError(w, apierrors.Wrap(err, apierrors.CodeInvalidRequest, "read request body"))
				return
			}
			body = raw
		}

		bearer, _ := httpx.BearerToken(r)
		resp, err := h.gateway.ProxyAuth(ctx, method, path, r.URL.Query(), bearer, body)
		if err != nil {
			h.logger.WarnContext(ctx, "auth proxy failed",
				"error", err,
				"request_id", requestID,
				"path", path,
			)
			h.writeError(w, err)
			return
		}
		httpx.WriteRaw(w, resp.StatusCode, resp.Body)
	}
}

// HandleCreateIP implements POST /ips: authenticate, stamp the recorder,
// forward.
func (h *Handler) HandleCreateIP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	accessToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req models.AddIPRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, err)
		return
	}

	resp, err := h.gateway.CreateIP(ctx, accessToken, &req)
	if err != nil {
		h.logger.WarnContext(ctx, "create ip failed",
			"error", err,
			"request_id", requestID,
		)
		h.writeError(w, err)
		return
	}
	httpx.WriteRaw(w, resp.StatusCode, resp.Body)
}

// HandleUpdateIP implements PATCH /ips/{ip_address_id} with the ownership
// check in front of the forward.
func (h *Handler) HandleUpdateIP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	accessToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req models.UpdateIPRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, err)
		return
	}

	resp, err := h.gateway.UpdateIP(ctx, accessToken, id, &req)
	if err != nil {
		h.logger.WarnContext(ctx, "update ip failed",
			"error", err,
			"request_id", requestID,
			"ip_address_id", id,
		)
		h.writeError(w, err)
		return
	}
	httpx.WriteRaw(w, resp.StatusCode, resp.Body)
}

// HandleDeleteIP implements DELETE /ips/{ip_address_id}.
func (h *Handler) HandleDeleteIP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	accessToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	resp, err := h.gateway.DeleteIP(ctx, accessToken, id)
	if err != nil {
		h.logger.WarnContext(ctx, "delete ip failed",
			"error", err,
			"request_id", requestID,
			"ip_address_id", id,
		)
		h.writeError(w, err)
		return
	}
	httpx.WriteRaw(w, resp.StatusCode, resp.Body)
}

// HandleListIPs implements GET /ips with recorder denormalization.
func (h *Handler) HandleListIPs(w http.ResponseWriter, r *http.Request) {
	h.paginated(w, r, h.gateway.ListIPs)
}

// HandleUsersAuditLog implements GET /audit-log/users as a passthrough.
func (h *Handler) HandleUsersAuditLog(w http.ResponseWriter, r *http.Request) {
	h.paginated(w, r, h.gateway.UsersAuditLog)
}

// HandleIPsAuditLog implements GET /audit-log/ips with superuser enforcement
// and user denormalization.
func (h *Handler) HandleIPsAuditLog(w http.ResponseWriter, r *http.Request) {
	h.paginated(w, r, h.gateway.IPsAuditLog)
}

func (h *Handler) paginated(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, accessToken string, itemsPerPage, pageNumber int) (*client.Response, error),
) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	accessToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	itemsPerPage, pageNumber, err := pageParams(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	resp, err := op(ctx, accessToken, itemsPerPage, pageNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "gateway fan-out failed",
			"error", err,
			"request_id", requestID,
			"path", r.URL.Path,
		)
		h.writeError(w, err)
		return
	}
	httpx.WriteRaw(w, resp.StatusCode, resp.Body)
}

// writeError distinguishes an upstream reply from a gateway-local failure:
// the former passes through with its original status and body, the latter
// gets the envelope for its code.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var upstream *client.UpstreamError
	if errors.As(err, &upstream) {
		httpx.WriteRaw(w, upstream.StatusCode, upstream.Body)
		return
	}
	httpx.WriteError(w, err)
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "ip_address_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierrors.New(apierrors.CodeInvalidRequest, "ip_address_id must be an integer")
	}
	return id, nil
}

// pageParams reads the public pagination params without converting them to
// limit/offset; the backends do their own conversion.
func pageParams(r *http.Request) (itemsPerPage, pageNumber int, err error) {
	itemsPerPage = 10
	if raw := r.URL.Query().Get("items_per_page"); raw != "" {
		itemsPerPage, err = strconv.Atoi(raw)
		if err != nil || itemsPerPage < 1 || itemsPerPage > 50 {
			return 0, 0, apierrors.New(apierrors.CodeInvalidRequest, "items_per_page must be between 1 and 50")
		}
	}
	pageNumber = 0
	if raw := r.URL.Query().Get("page_number"); raw != "" {
		pageNumber, err = strconv.Atoi(raw)
		if err != nil || pageNumber < 0 {
			return 0, 0, apierrors.New(apierrors.CodeInvalidRequest, "page_number must be a non-negative integer")
		}
	}
	return itemsPerPage, pageNumber, nil
}
