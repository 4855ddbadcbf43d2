// Package handler exposes the IP inventory service over HTTP. It is an
// internal surface: authentication and authorization happen at the gateway.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ipvault/internal/ipam/models"
	"ipvault/internal/platform/middleware"
	"ipvault/internal/transport/httpx"
	"ipvault/pkg/apierrors"
)

// Service defines the interface for inventory operations.
type Service interface {
	Add(ctx context.Context, req *models.AddIPRequest, recorderID int64) (*models.IPAddress, error)
	Update(ctx context.Context, id int64, req *models.UpdateIPRequest, updaterID int64) (*models.IPAddress, error)
	Delete(ctx context.Context, id, deleterID int64) error
	List(ctx context.Context, limit, offset int) (*models.IPList, error)
	Get(ctx context.Context, id int64) (*models.IPAddress, error)
	AuditLog(ctx context.Context, limit, offset int) (*models.AuditLogPage, error)
}

// Handler handles inventory CRUD and the inventory audit log.
type Handler struct {
	inventory Service
	logger    *slog.Logger
}

// New creates an inventory Handler with the given service and logger.
func New(inventory Service, logger *slog.Logger) *Handler {
	return &Handler{inventory: inventory, logger: logger}
}

// Register registers the inventory routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ips", h.HandleAdd)
	r.Patch("/ips/{ip_address_id}", h.HandleUpdate)
	r.Delete("/ips/{ip_address_id}", h.HandleDelete)
	r.Get("/ips", h.HandleList)
	r.Get("/audit-log", h.HandleAuditLog)
}

// HandleAdd implements POST /ips.
//
// Input: { "ip_address": "...", "label": "...", "comment": "...", "recorder_id": N }
// Output: { "data": { "ip": {...} } }
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.AddIPRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode add request",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, err)
		return
	}

	addr, err := h.inventory.Add(ctx, &req, req.RecorderID)
	if err != nil {
		h.logger.WarnContext(ctx, "add ip address failed",
			"error", err,
			"request_id", requestID,
			"label", req.Label,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ip address added",
		"request_id", requestID,
		"ip_address_id", addr.ID,
	)
	httpx.WriteData(w, http.StatusCreated, map[string]any{"ip": addr})
}

// HandleUpdate implements PATCH /ips/{ip_address_id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req models.UpdateIPRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update request",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, err)
		return
	}

	addr, err := h.inventory.Update(ctx, id, &req, req.UpdaterID)
	if err != nil {
		h.logger.WarnContext(ctx, "update ip address failed",
			"error", err,
			"request_id", requestID,
			"ip_address_id", id,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ip address updated",
		"request_id", requestID,
		"ip_address_id", addr.ID,
	)
	httpx.WriteData(w, http.StatusOK, map[string]any{"ip": addr})
}

// HandleDelete implements DELETE /ips/{ip_address_id}. The delete is
// logical; the row stays behind for the audit trail.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := pathID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req models.DeleteIPRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode delete request",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}

	if err := h.inventory.Delete(ctx, id, req.DeleterID); err != nil {
		h.logger.WarnContext(ctx, "delete ip address failed",
			"error", err,
			"request_id", requestID,
			"ip_address_id", id,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "ip address deleted",
		"request_id", requestID,
		"ip_address_id", id,
	)
	httpx.WriteData(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleList implements GET /ips. With ?id=N it is a point lookup that
// returns zero or one entries, deleted ones included; otherwise it is a
// paginated listing of live entries.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.WriteError(w, apierrors.New(apierrors.CodeInvalidRequest, "id must be an integer"))
			return
		}
		addr, err := h.inventory.Get(ctx, id)
		if err != nil {
			if apierrors.HasCode(err, apierrors.CodeNonexistentIP) {
				httpx.WriteData(w, http.StatusOK, models.IPList{Addresses: []*models.IPAddress{}})
				return
			}
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteData(w, http.StatusOK, models.IPList{Addresses: []*models.IPAddress{addr}, TotalCount: 1})
		return
	}

	limit, offset, err := httpx.Pagination(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	res, err := h.inventory.List(ctx, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "list ip addresses failed",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

// HandleAuditLog implements GET /audit-log, newest first.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	limit, offset, err := httpx.Pagination(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	res, err := h.inventory.AuditLog(ctx, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "audit log read failed",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "ip_address_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierrors.New(apierrors.CodeInvalidRequest, "ip_address_id must be an integer")
	}
	return id, nil
}
