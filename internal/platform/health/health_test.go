package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbeRouter(h *Handler) *chi.Mux {
	router := chi.NewRouter()
	h.Register(router)
	return router
}

func probe(t *testing.T, router *chi.Mux, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestLivenessAlwaysUp(t *testing.T) {
	h := New("auth")
	h.RegisterCheck("database", func() error { return errors.New("down") })

	code, body := probe(t, newProbeRouter(h), "/healthz/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])
}

func TestReadinessWithoutChecks(t *testing.T) {
	code, body := probe(t, newProbeRouter(New("auth")), "/healthz/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestReadinessReportsEachCheck(t *testing.T) {
	h := New("ipd")
	h.RegisterCheck("database", func() error { return nil })
	h.RegisterCheck("upstream", func() error { return errors.New("connection refused") })

	code, body := probe(t, newProbeRouter(h), "/healthz/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])

	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "up", checks["database"])
	assert.Equal(t, "down: connection refused", checks["upstream"])
}

func TestReadinessRecovers(t *testing.T) {
	healthy := false
	h := New("gateway")
	h.RegisterCheck("database", func() error {
		if !healthy {
			return errors.New("not yet")
		}
		return nil
	})
	router := newProbeRouter(h)

	code, _ := probe(t, router, "/healthz/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	healthy = true
	code, body := probe(t, router, "/healthz/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestStatusReportsServiceAndVersion(t *testing.T) {
	code, body := probe(t, newProbeRouter(New("auth")), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "auth", body["service"])
	assert.Equal(t, Version, body["version"])
	assert.NotEmpty(t, body["timestamp"])
}
