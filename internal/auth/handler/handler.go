// Package handler exposes the auth service over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ipvault/internal/auth/models"
	"ipvault/internal/auth/token"
	"ipvault/internal/platform/middleware"
	"ipvault/internal/transport/httpx"
	"ipvault/pkg/apierrors"
)

// Service defines the interface for auth operations.
type Service interface {
	Register(ctx context.Context, req *models.RegistrationRequest) (*models.SessionPayload, error)
	Login(ctx context.Context, req *models.LoginRequest, userAgent string) (*models.SessionPayload, error)
	Logout(ctx context.Context, req *models.LogoutRequest) error
	Refresh(ctx context.Context, refreshToken string) (*models.SessionPayload, error)
	ValidateAccess(ctx context.Context, accessToken string) (*token.Subject, error)
	Users(ctx context.Context, accessToken string, ids []int64) (*models.UserList, error)
	AuditLog(ctx context.Context, accessToken string, limit, offset int) (*models.AuditLogPage, error)
}

// Handler handles registration, login, logout, token lifecycle, user lookup
// and the user audit log.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

// New creates an auth Handler with the given service and logger.
func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Get("/users", h.HandleUsers)
	r.Post("/token/access/validate", h.HandleValidateAccess)
	r.Get("/token/refresh", h.HandleRefresh)
	r.Get("/audit-log", h.HandleAuditLog)
}

// HandleRegister implements PUT /register.
//
// Input: { "username": "...", "password1": "...", "password2": "..." }
// Output: { "data": { "user": {...}, "authorization": {...} } }
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.RegistrationRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request",
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

	res, err := h.auth.Register(ctx, &req)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"error", err,
			"request_id", requestID,
			"username", req.Username,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"user_id", res.User.ID,
	)
	httpx.WriteData(w, http.StatusCreated, res)
}

// HandleLogin implements POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request",
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

	res, err := h.auth.Login(ctx, &req, r.UserAgent())
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"error", err,
			"request_id", requestID,
			"username", req.Username,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login successful",
		"request_id", requestID,
		"user_id", res.User.ID,
	)
	httpx.WriteData(w, http.StatusOK, res)
}

// HandleLogout implements POST /logout. Both tokens of the pair must be
// presented; a malformed one rejects the whole request.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.LogoutRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode logout request",
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

	if err := h.auth.Logout(ctx, &req); err != nil {
		h.logger.WarnContext(ctx, "logout failed",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "logout successful", "request_id", requestID)
	httpx.WriteData(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// HandleValidateAccess implements POST /token/access/validate. Backends and
// the gateway call it to turn a bearer token into a subject.
func (h *Handler) HandleValidateAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.AccessTokenValidationRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode validation request",
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

	sub, err := h.auth.ValidateAccess(ctx, req.AccessToken)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, sub)
}

// HandleRefresh implements GET /token/refresh. The refresh token rides in
// the Authorization header and is rotated on success.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	refreshToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteErrorCode(w, apierrors.CodeInvalidRefreshToken)
		return
	}

	res, err := h.auth.Refresh(ctx, refreshToken)
	if err != nil {
		h.logger.WarnContext(ctx, "token refresh failed",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "token pair rotated",
		"request_id", requestID,
		"user_id", res.User.ID,
	)
	httpx.WriteData(w, http.StatusOK, res)
}

// HandleUsers implements GET /users?id=1&id=2 for authenticated callers.
// Unknown IDs are omitted from the result.
func (h *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	accessToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	ids, err := parseIDs(r.URL.Query()["id"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	res, err := h.auth.Users(ctx, accessToken, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "users lookup failed",
			"error", err,
			"request_id", requestID,
		)
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res)
}

// HandleAuditLog implements GET /audit-log for superusers, newest first.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	accessToken, err := httpx.BearerToken(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	limit, offset, err := httpx.Pagination(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	res, err := h.auth.AuditLog(ctx, accessToken, limit, offset)
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

func parseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, apierrors.New(apierrors.CodeInvalidRequest, "id must be an integer")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
