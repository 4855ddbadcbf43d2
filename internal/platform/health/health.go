// Package health exposes liveness and readiness probes for the services.
// Readiness runs the registered dependency checks, so an instance with a
// broken database connection drops out of rotation instead of erroring on
// real traffic.
package health

import (
	"encoding/json"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc probes one dependency. A nil return means the dependency is
// reachable.
type CheckFunc func() error

// Handler serves the probe endpoints for a single service.
type Handler struct {
	service string
	started time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// New creates a probe handler for the named service.
func New(service string) *Handler {
	return &Handler{
		service: service,
		started: time.Now(),
		checks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named dependency check to the readiness probe.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts the probe routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleStatus)
	r.Get("/healthz/live", h.handleLiveness)
	r.Get("/healthz/ready", h.handleReadiness)
}

type livenessResponse struct {
	Status string `json:"status"`
}

// handleLiveness answers 200 whenever the process is up.
func (h *Handler) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, livenessResponse{Status: "alive"})
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleReadiness runs every registered check and answers 503 if any of
// them fails.
func (h *Handler) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	maps.Copy(checks, h.checks)
	h.mu.RUnlock()

	resp := readinessResponse{
		Status: "ready",
		Checks: make(map[string]string, len(checks)),
	}
	for name, check := range checks {
		if err := check(); err != nil {
			resp.Checks[name] = "down: " + err.Error()
			resp.Status = "not_ready"
		} else {
			resp.Checks[name] = "up"
		}
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

type statusResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// handleStatus reports version and uptime for the service.
func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:        "healthy",
		Service:       h.service,
		Version:       Version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// Probe responses are plain JSON rather than the API data envelope so that
// orchestrator probes stay trivial to parse.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
