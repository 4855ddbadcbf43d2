// Command gateway runs the public façade: it authenticates bearer tokens
// against the auth service, authorizes ownership locally, fans out to the
// backends, and assembles the combined responses.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"ipvault/internal/gateway/client"
	"ipvault/internal/gateway/handler"
	"ipvault/internal/gateway/metrics"
	"ipvault/internal/gateway/service"
	"ipvault/internal/platform/config"
	"ipvault/internal/platform/health"
	"ipvault/internal/platform/httpserver"
	"ipvault/internal/platform/logger"
	"ipvault/internal/platform/middleware"
)

func main() {
	log := logger.New("gateway")

	cfg, err := config.GatewayFromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	authClient := client.NewAuth(cfg.AuthServiceURL, client.WithTimeout(cfg.UpstreamTimeout))
	inventoryClient := client.NewInventory(cfg.IPServiceURL, client.WithTimeout(cfg.UpstreamTimeout))

	svc := service.New(authClient, inventoryClient,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	probes := health.New("gateway")
	probes.RegisterCheck("auth", probeUpstream(cfg.AuthServiceURL, cfg.UpstreamTimeout))
	probes.RegisterCheck("inventory", probeUpstream(cfg.IPServiceURL, cfg.UpstreamTimeout))
	probes.Register(router)
	handler.New(svc, log).Register(router)

	apiServer := httpserver.New(cfg.Addr, router)

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())
	metricsServer := httpserver.New(cfg.MetricsAddr, metricsRouter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting gateway",
		"addr", cfg.Addr,
		"metrics_addr", cfg.MetricsAddr,
		"auth_url", cfg.AuthServiceURL,
		"ip_url", cfg.IPServiceURL,
	)
	if err := run(ctx, apiServer, metricsServer); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("gateway stopped")
}

// probeUpstream reports whether a backend answers its liveness probe.
func probeUpstream(baseURL string, timeout time.Duration) health.CheckFunc {
	httpClient := &http.Client{Timeout: timeout}
	return func() error {
		resp, err := httpClient.Get(baseURL + "/healthz/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil
	}
}

// run serves both listeners until the context is cancelled, then shuts them
// down gracefully.
func run(ctx context.Context, servers ...*http.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}
